package controller

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/result"
	"wopanel/pkg/core/util"
	"wopanel/system/site/internal/app"
	"wopanel/system/site/internal/model/dto"
	"wopanel/utils"

	"github.com/gofiber/fiber/v2"
)

// SiteController 站点管理控制器
type SiteController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewSiteController 创建站点控制器实例
func NewSiteController(app *app.App) *SiteController {
	return &SiteController{
		app: app,
		err: errorc.NewErrorBuilder("SiteController"),
		log: logger.GetLogger().WithEntryName("SiteController"),
	}
}

// RegisterRoutes 注册路由
func (ctrl *SiteController) RegisterRoutes(admin fiber.Router) {
	admin.Get("/sites", base.AdminAuth.RequireAdminAuth(), ctrl.List)

	site := admin.Group("/site/:domain", base.AdminAuth.RequireAdminAuth())
	site.Get("/", ctrl.Info)
	site.Delete("/delete", ctrl.Delete)
	site.Get("/autologin", ctrl.AutoLogin)
	site.Put("/php", ctrl.SwitchPHP)
	site.Get("/check-ssl", ctrl.CheckSSL)
}

// List 列出已托管站点
func (ctrl *SiteController) List(ctx *fiber.Ctx) error {
	sites, err := ctrl.app.SiteService.List(util.Context(ctx))
	if err != nil {
		return err
	}

	return result.OK(ctx, fiber.Map{
		"total":   len(sites),
		"content": sites,
	})
}

// Info 查询站点详情
func (ctrl *SiteController) Info(ctx *fiber.Ctx) error {
	domain := ctx.Params("domain")
	info, err := ctrl.app.SiteService.Info(util.Context(ctx), domain)
	return result.Once(ctx, info, err)
}

// Delete 删除站点，同步等待驱动工具完成
func (ctrl *SiteController) Delete(ctx *fiber.Ctx) error {
	domain := ctx.Params("domain")
	err := ctrl.app.SiteService.Delete(util.Context(ctx), domain)
	return result.Once(ctx, "站点已删除", err)
}

// AutoLogin 跳转到站点后台
func (ctrl *SiteController) AutoLogin(ctx *fiber.Ctx) error {
	domain := ctx.Params("domain")
	url, err := ctrl.app.SiteService.AutoLoginURL(util.Context(ctx), domain, ctx.Query("user"))
	if err != nil {
		return err
	}
	return ctx.Redirect(url, fiber.StatusFound)
}

// SwitchPHP 切换站点 PHP 版本
func (ctrl *SiteController) SwitchPHP(ctx *fiber.Ctx) error {
	domain := ctx.Params("domain")

	var req dto.SwitchPHPReq
	if err := ctx.BodyParser(&req); err != nil {
		return ctrl.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	if errMsg, err := utils.Validate(&req); err != nil {
		return ctrl.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	err := ctrl.app.SiteService.SwitchPHP(util.Context(ctx), domain, req.Version)
	return result.Once(ctx, "PHP 版本已切换", err)
}

// CheckSSL 探测站点 HTTPS 可达性
func (ctrl *SiteController) CheckSSL(ctx *fiber.Ctx) error {
	domain := ctx.Params("domain")
	return result.OK(ctx, dto.CheckSSLResp{
		Domain: domain,
		Secure: ctrl.app.SSLProbe.Secure(domain),
	})
}
