package app

import (
	"time"

	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/wo"
	"wopanel/pkg/wp"
	"wopanel/system/site/internal/service"
)

// App 站点组件应用组合根
type App struct {
	SiteService *service.SiteService
	SSLProbe    *service.SSLProbe
	log         *logger.Log
	err         *errorc.ErrorBuilder
}

// NewApp 创建站点应用实例
func NewApp() *App {
	log := base.Logger.WithEntryName("SiteApp")
	cfg := base.Configures.Config.WordOps

	driver := wo.NewDriver(cfg.WoPath, base.Executor, log)
	wpClient := wp.NewClient(cfg.WpPath, cfg.Webroot, base.Executor, log)

	return &App{
		SiteService: service.NewSiteService(driver, wpClient, log),
		SSLProbe:    service.NewSSLProbe(3*time.Second, log),
		log:         log,
		err:         errorc.NewErrorBuilder("SiteApp"),
	}
}
