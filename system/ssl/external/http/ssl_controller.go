package controller

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/result"
	"wopanel/pkg/core/util"
	"wopanel/system/ssl/internal/app"

	"github.com/gofiber/fiber/v2"
)

// SslController 证书控制器
type SslController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewSslController 创建证书控制器实例
func NewSslController(app *app.App) *SslController {
	return &SslController{
		app: app,
		err: errorc.NewErrorBuilder("SslController"),
		log: logger.GetLogger().WithEntryName("SslController"),
	}
}

// RegisterRoutes 注册路由
func (ctrl *SslController) RegisterRoutes(admin fiber.Router) {
	ssl := admin.Group("/site/:domain/ssl", base.AdminAuth.RequireAdminAuth())

	ssl.Get("/", ctrl.Status)
	ssl.Post("/", ctrl.Issue)
}

// Status 查询站点证书记录
func (ctrl *SslController) Status(ctx *fiber.Ctx) error {
	domain := ctx.Params("domain")
	cert, err := ctrl.app.CertificateService.Status(util.Context(ctx), domain)
	if err != nil {
		return err
	}
	if cert == nil {
		return result.OK(ctx, fiber.Map{"domain": domain, "issued": false})
	}
	return result.OK(ctx, cert)
}

// Issue 为站点签发证书，同步等待签发完成
func (ctrl *SslController) Issue(ctx *fiber.Ctx) error {
	domain := ctx.Params("domain")

	method, err := ctrl.app.CertificateService.Issue(util.Context(ctx), domain)
	if err != nil {
		return err
	}

	ctrl.log.WithField("domain", domain).WithField("method", string(method)).Info("证书签发完成")
	return result.OK(ctx, fiber.Map{"domain": domain, "method": method})
}
