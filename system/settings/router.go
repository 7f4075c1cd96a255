package settings

import (
	controller "wopanel/system/settings/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册配置组件路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	settingsController := controller.NewSettingsController(m.internalApp)
	settingsController.RegisterRoutes(admin)
}
