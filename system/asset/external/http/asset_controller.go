package controller

import (
	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/result"
	"wopanel/pkg/core/util"
	"wopanel/system/asset/internal/app"
	assetdto "wopanel/system/asset/api/dto"
	"wopanel/system/asset/internal/model/dto"
	"wopanel/utils"

	"github.com/gofiber/fiber/v2"
)

// AssetController 资源仓库控制器
type AssetController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewAssetController 创建资源控制器实例
func NewAssetController(app *app.App) *AssetController {
	return &AssetController{
		app: app,
		err: errorc.NewErrorBuilder("AssetController"),
		log: logger.GetLogger().WithEntryName("AssetController"),
	}
}

// RegisterRoutes 注册路由
func (ctrl *AssetController) RegisterRoutes(admin fiber.Router) {
	assets := admin.Group("/assets", base.AdminAuth.RequireAdminAuth())

	assets.Get("/", ctrl.List)
	assets.Post("/upload", ctrl.Upload)
	assets.Delete("/delete", ctrl.Delete)
}

// List 返回官方仓库清单与本地仓库内容
func (ctrl *AssetController) List(ctx *fiber.Ctx) error {
	vault, err := ctrl.app.VaultService.List(util.Context(ctx))
	if err != nil {
		return err
	}

	return result.OK(ctx, fiber.Map{
		"catalog": assetdto.Catalog(),
		"vault":   vault,
	})
}

// Upload 上传插件/主题压缩包入库
func (ctrl *AssetController) Upload(ctx *fiber.Ctx) error {
	kind := assetdto.AssetKind(ctx.FormValue("type"))
	if kind != assetdto.KindPlugin && kind != assetdto.KindTheme {
		return ctrl.err.New("type 必须是 plugin 或 theme", nil).ValidWithCtx().WithTraceID(util.Context(ctx))
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctrl.err.New("读取上传文件失败", err).ValidWithCtx().WithTraceID(util.Context(ctx))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return ctrl.err.New("打开上传文件失败", err).WithTraceID(util.Context(ctx))
	}
	defer f.Close()

	ref, err := ctrl.app.VaultService.Save(util.Context(ctx), kind, fileHeader.Filename, f)
	return result.Once(ctx, ref, err)
}

// Delete 删除本地仓库内的资源文件
func (ctrl *AssetController) Delete(ctx *fiber.Ctx) error {
	var req dto.DeleteAssetReq
	if err := ctx.BodyParser(&req); err != nil {
		return ctrl.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	if errMsg, err := utils.Validate(&req); err != nil {
		return ctrl.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	err := ctrl.app.VaultService.Delete(util.Context(ctx), req.Path)
	return result.Once(ctx, "删除成功", err)
}
