package deploy

import (
	controller "wopanel/system/deploy/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册部署组件路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	deployController := controller.NewDeployController(m.internalApp)
	deployController.RegisterRoutes(admin)
}
