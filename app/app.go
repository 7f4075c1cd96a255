package app

import (
	"wopanel/base"
	"wopanel/system/asset"
	"wopanel/system/deploy"
	"wopanel/system/settings"
	"wopanel/system/site"
	"wopanel/system/ssl"
	"wopanel/system/tunnel"
	"wopanel/system/user"

	"gorm.io/gorm"
)

// App 应用组合根，聚合各业务组件模块
type App struct {
	UserModule     *user.Module
	SettingsModule *settings.Module
	AssetModule    *asset.Module
	SiteModule     *site.Module
	SslModule      *ssl.Module
	DeployModule   *deploy.Module
	TunnelModule   *tunnel.Module
}

// NewApp 创建应用组合根并完成组件间装配：
// ssl 组件从 settings 读取 Cloudflare 凭证，deploy 组件用 asset 解析安装项
func NewApp() *App {
	settingsModule := settings.NewModule()
	assetModule := asset.NewModule()
	sslModule := ssl.NewModule(settingsModule.Client)

	return &App{
		UserModule:     user.NewModule(),
		SettingsModule: settingsModule,
		AssetModule:    assetModule,
		SiteModule:     site.NewModule(),
		SslModule:      sslModule,
		DeployModule:   deploy.NewModule(assetModule.Client, settingsModule.Client, sslModule),
		TunnelModule:   tunnel.NewModule(),
	}
}

// AutoMigrate 执行所有组件的数据库迁移
func AutoMigrate(db *gorm.DB) error {
	if err := user.AutoMigrate(db, base.Logger); err != nil {
		return err
	}
	if err := settings.AutoMigrate(db, base.Logger); err != nil {
		return err
	}
	if err := ssl.AutoMigrate(db, base.Logger); err != nil {
		return err
	}
	if err := deploy.AutoMigrate(db, base.Logger); err != nil {
		return err
	}
	return nil
}
