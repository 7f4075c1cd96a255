package controller

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/result"
	"wopanel/pkg/core/util"
	"wopanel/system/settings/internal/app"
	"wopanel/system/settings/internal/model"
	"wopanel/system/settings/internal/model/dto"
	"wopanel/utils"

	"github.com/gofiber/fiber/v2"
)

// SettingsController 面板设置控制器
type SettingsController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewSettingsController 创建设置控制器实例
func NewSettingsController(app *app.App) *SettingsController {
	return &SettingsController{
		app: app,
		err: errorc.NewErrorBuilder("SettingsController"),
		log: logger.GetLogger().WithEntryName("SettingsController"),
	}
}

// RegisterRoutes 注册路由
func (ctrl *SettingsController) RegisterRoutes(admin fiber.Router) {
	settings := admin.Group("/settings", base.AdminAuth.RequireAdminAuth())

	settings.Get("/", ctrl.Get)
	settings.Post("/save", ctrl.Save)
}

// Get 读取面板设置，API Key 只返回是否已配置
func (ctrl *SettingsController) Get(ctx *fiber.Ctx) error {
	email, apiKey, _, err := ctrl.app.SettingService.CloudflareCredentials(util.Context(ctx))
	if err != nil {
		return err
	}

	return result.OK(ctx, dto.SettingsResp{
		CfEmail:  email,
		CfKeySet: apiKey != "",
	})
}

// Save 保存 Cloudflare DNS 凭证
func (ctrl *SettingsController) Save(ctx *fiber.Ctx) error {
	var req dto.SaveSettingsReq
	if err := ctx.BodyParser(&req); err != nil {
		return ctrl.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	if errMsg, err := utils.Validate(&req); err != nil {
		return ctrl.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	c := util.Context(ctx)
	if req.CfEmail != "" {
		if err := ctrl.app.SettingService.Set(c, model.KeyCloudflareEmail, req.CfEmail); err != nil {
			return err
		}
	}
	if req.CfKey != "" {
		if err := ctrl.app.SettingService.SetSecret(c, model.KeyCloudflareKey, req.CfKey); err != nil {
			return err
		}
	}

	return result.OK(ctx, "保存成功")
}
