package router

import (
	"wopanel/app"
	"wopanel/system/asset"
	"wopanel/system/deploy"
	"wopanel/system/settings"
	"wopanel/system/site"
	"wopanel/system/ssl"
	"wopanel/system/tunnel"
	"wopanel/system/user"

	"github.com/gofiber/fiber/v2"
)

// Register 负责集中注册所有 HTTP 路由。
// 按规范：
//   - 只依赖 app.App（业务编排入口）和 fiber.App（HTTP Server）。
//   - 不直接依赖任何 DAO / Service / system/internal 包。
//   - 不包含业务逻辑，只做分组与路由绑定。
func Register(a *app.App, f *fiber.App) {
	api := f.Group("/api")

	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "ok"})
	})

	admin := f.Group("/admin")

	// 用户组件路由（管理员登录与管理员管理）
	user.RegisterRoutes(a.UserModule, api, admin)

	// 面板配置路由（Cloudflare 凭证等）
	settings.RegisterRoutes(a.SettingsModule, api, admin)

	// 插件/主题仓库路由
	asset.RegisterRoutes(a.AssetModule, api, admin)

	// 站点管理路由
	site.RegisterRoutes(a.SiteModule, api, admin)

	// SSL 证书组件路由
	ssl.RegisterRoutes(a.SslModule, api, admin)

	// 站点部署路由（提交与进度轮询）
	deploy.RegisterRoutes(a.DeployModule, api, admin)

	// cloudflared 隧道路由
	tunnel.RegisterRoutes(a.TunnelModule, api, admin)
}
