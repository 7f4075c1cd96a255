package app

import (
	"path/filepath"
	"strings"
	"time"

	"wopanel/base"
	"wopanel/pkg/core/start"

	"github.com/gofiber/fiber/v2"
)

// GetApp 创建 Fiber 应用并挂载前端静态文件
func GetApp() *fiber.App {
	app := start.GetApp()

	RegisterStaticFiles(app, base.Configures.Config.Static, "/")

	return app
}

// RegisterStaticFiles 配置静态文件服务，用于提供打包后的面板前端页面
func RegisterStaticFiles(app *fiber.App, staticPath string, prefixPath string) {
	if staticPath == "" {
		return
	}

	app.Static(prefixPath, staticPath, fiber.Static{
		Compress:      true,
		ByteRange:     true,
		Browse:        false,
		Index:         "index.html",
		CacheDuration: 10 * time.Minute,
	})

	// SPA 路由兜底：非 API 请求且不带静态资源扩展名的都回到 index.html
	app.Get("*", func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, "/health") {
			return c.Next()
		}

		switch filepath.Ext(path) {
		case ".js", ".css", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
			".woff", ".woff2", ".ttf", ".eot", ".map":
			return c.Next()
		}

		return c.SendFile(staticPath + "/index.html")
	})

	base.Logger.WithField("路径", staticPath).WithField("前缀", prefixPath).Info("已注册静态文件服务")
}
