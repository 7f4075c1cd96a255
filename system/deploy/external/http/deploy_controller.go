package controller

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/result"
	"wopanel/pkg/core/util"
	"wopanel/system/deploy/internal/app"
	"wopanel/system/deploy/internal/model/dto"
	"wopanel/utils"

	"github.com/gofiber/fiber/v2"
)

// DeployController 站点部署控制器
type DeployController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewDeployController 创建部署控制器实例
func NewDeployController(app *app.App) *DeployController {
	return &DeployController{
		app: app,
		err: errorc.NewErrorBuilder("DeployController"),
		log: logger.GetLogger().WithEntryName("DeployController"),
	}
}

// RegisterRoutes 注册路由
func (ctrl *DeployController) RegisterRoutes(admin fiber.Router) {
	admin.Post("/create-site", base.AdminAuth.RequireAdminAuth(), ctrl.CreateSite)
	admin.Get("/progress/:domain", base.AdminAuth.RequireAdminAuth(), ctrl.Progress)
	admin.Get("/deploy-history", base.AdminAuth.RequireAdminAuth(), ctrl.History)
}

// CreateSite 提交部署请求，立即返回，进度走 Progress 轮询
func (ctrl *DeployController) CreateSite(ctx *fiber.Ctx) error {
	var req dto.CreateSiteReq
	if err := ctx.BodyParser(&req); err != nil {
		return ctrl.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	if errMsg, err := utils.Validate(&req); err != nil {
		return ctrl.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	resp, err := ctrl.app.Submit(util.Context(ctx), &req)
	return result.Once(ctx, resp, err)
}

// Progress 查询部署目标的进度快照
// after 为上次返回的日志偏移，传入后只返回新增日志行
func (ctrl *DeployController) Progress(ctx *fiber.Ctx) error {
	domain := ctx.Params("domain")
	after := ctx.QueryInt("after", 0)
	return result.OK(ctx, ctrl.app.Snapshot(domain, after))
}

// History 查询落库的部署历史
func (ctrl *DeployController) History(ctx *fiber.Ctx) error {
	var req dto.HistoryReq
	if err := ctx.QueryParser(&req); err != nil {
		return ctrl.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	if errMsg, err := utils.Validate(&req); err != nil {
		return ctrl.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	records, err := ctrl.app.History(util.Context(ctx), req.Domain, req.Limit)
	if err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{
		"total":   len(records),
		"content": records,
	})
}
