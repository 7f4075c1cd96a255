package app

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/wo"
	"wopanel/system/ssl/internal/dao"
	"wopanel/system/ssl/internal/service"
)

// App 证书组件应用组合根
type App struct {
	CertificateService *service.CertificateService
	log                *logger.Log
	err                *errorc.ErrorBuilder
}

// NewApp 创建证书应用实例，credentials 由配置组件注入
func NewApp(credentials service.CredentialSource) *App {
	log := base.Logger.WithEntryName("SslApp")
	cfg := base.Configures.Config

	certDao := dao.NewCertificateDao(base.DB, log)
	acmeService := service.NewAcmeService(log)
	driver := wo.NewDriver(cfg.WordOps.WoPath, base.Executor, log)
	installer := service.NewInstallService("", cfg.WordOps.Webroot, base.Executor, log)

	certService := service.NewCertificateService(
		certDao, acmeService, driver, installer, credentials,
		cfg.Acme.Email, cfg.Acme.Staging, log,
	)

	return &App{
		CertificateService: certService,
		log:                log,
		err:                errorc.NewErrorBuilder("SslApp"),
	}
}
