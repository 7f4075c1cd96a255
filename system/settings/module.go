package settings

import (
	"wopanel/system/settings/api/client"
	"wopanel/system/settings/internal/app"
)

// Module 配置组件模块门面
type Module struct {
	internalApp *app.App
	// Client 对外客户端，供 ssl、deploy 等组件读取凭证
	Client *client.SettingsClient
}

// NewModule 创建配置组件模块实例
func NewModule() *Module {
	internalApp := app.NewApp()
	return &Module{
		internalApp: internalApp,
		Client:      client.NewSettingsClient(internalApp),
	}
}
