package site

import (
	controller "wopanel/system/site/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册站点组件路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	siteController := controller.NewSiteController(m.internalApp)
	siteController.RegisterRoutes(admin)
}
