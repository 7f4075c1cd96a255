package tunnel

import (
	controller "wopanel/system/tunnel/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册隧道组件路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	tunnelController := controller.NewTunnelController(m.internalApp)
	tunnelController.RegisterRoutes(admin)
}
