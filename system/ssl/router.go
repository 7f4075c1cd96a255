package ssl

import (
	controller "wopanel/system/ssl/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册证书组件路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	sslController := controller.NewSslController(m.internalApp)
	sslController.RegisterRoutes(admin)
}
