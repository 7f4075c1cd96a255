package user

import (
	controller "wopanel/system/user/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册用户组件路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	adminController := controller.NewAdminController(m.internalApp)
	adminController.RegisterRoutes(admin)
}
