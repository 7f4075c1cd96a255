package asset

import (
	controller "wopanel/system/asset/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册资源组件路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	assetController := controller.NewAssetController(m.internalApp)
	assetController.RegisterRoutes(admin)
}
