package app

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/system/asset/internal/service"
)

// App 资源组件应用组合根
type App struct {
	VaultService *service.VaultService
	log          *logger.Log
	err          *errorc.ErrorBuilder
}

// NewApp 创建资源应用实例
func NewApp() *App {
	log := base.Logger.WithEntryName("AssetApp")

	return &App{
		VaultService: service.NewVaultService(base.Configures.Config.WordOps.AssetDir, log),
		log:          log,
		err:          errorc.NewErrorBuilder("AssetApp"),
	}
}
