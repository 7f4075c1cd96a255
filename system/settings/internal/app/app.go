package app

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/system/settings/internal/dao"
	"wopanel/system/settings/internal/service"
)

// App 配置组件应用组合根
type App struct {
	SettingService *service.SettingService
	log            *logger.Log
	err            *errorc.ErrorBuilder
}

// NewApp 创建配置应用实例
func NewApp() *App {
	log := base.Logger.WithEntryName("SettingsApp")

	settingDao := dao.NewSettingDao(base.DB, log)
	cipher := service.NewCipher(base.Configures.Config.Jwt.AdminSecret)
	settingService := service.NewSettingService(settingDao, base.Cache, cipher, log)

	return &App{
		SettingService: settingService,
		log:            log,
		err:            errorc.NewErrorBuilder("SettingsApp"),
	}
}
