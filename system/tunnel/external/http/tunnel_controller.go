package controller

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/result"
	"wopanel/pkg/core/util"
	"wopanel/system/tunnel/internal/app"
	"wopanel/system/tunnel/internal/model/dto"
	"wopanel/utils"

	"github.com/gofiber/fiber/v2"
)

// TunnelController 隧道管理控制器
type TunnelController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewTunnelController 创建隧道控制器实例
func NewTunnelController(app *app.App) *TunnelController {
	return &TunnelController{
		app: app,
		err: errorc.NewErrorBuilder("TunnelController"),
		log: logger.GetLogger().WithEntryName("TunnelController"),
	}
}

// RegisterRoutes 注册路由
func (ctrl *TunnelController) RegisterRoutes(admin fiber.Router) {
	tunnel := admin.Group("/tunnel", base.AdminAuth.RequireAdminAuth())
	tunnel.Get("/status", ctrl.Status)
	tunnel.Post("/install", ctrl.Install)
	tunnel.Post("/start", ctrl.Start)
	tunnel.Post("/stop", ctrl.Stop)
	tunnel.Post("/restart", ctrl.Restart)
}

// Status 查询 cloudflared 状态
func (ctrl *TunnelController) Status(ctx *fiber.Ctx) error {
	status, err := ctrl.app.TunnelService.Status(util.Context(ctx))
	return result.Once(ctx, status, err)
}

// Install 下载安装 cloudflared，并用请求里的令牌注册隧道服务
func (ctrl *TunnelController) Install(ctx *fiber.Ctx) error {
	var req dto.InstallTunnelReq
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return ctrl.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	if errMsg, err := utils.Validate(&req); err != nil {
		return ctrl.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	status, err := ctrl.app.TunnelService.Install(util.Context(ctx), req.Token)
	return result.Once(ctx, status, err)
}

// Start 启动隧道服务
func (ctrl *TunnelController) Start(ctx *fiber.Ctx) error {
	err := ctrl.app.TunnelService.Start(util.Context(ctx))
	return result.Once(ctx, "隧道服务已启动", err)
}

// Stop 停止隧道服务
func (ctrl *TunnelController) Stop(ctx *fiber.Ctx) error {
	err := ctrl.app.TunnelService.Stop(util.Context(ctx))
	return result.Once(ctx, "隧道服务已停止", err)
}

// Restart 重启隧道服务
func (ctrl *TunnelController) Restart(ctx *fiber.Ctx) error {
	err := ctrl.app.TunnelService.Restart(util.Context(ctx))
	return result.Once(ctx, "隧道服务已重启", err)
}
