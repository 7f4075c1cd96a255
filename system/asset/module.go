package asset

import (
	"wopanel/system/asset/api/client"
	"wopanel/system/asset/internal/app"
)

// Module 资源组件模块门面
type Module struct {
	internalApp *app.App
	// Client 对外客户端，供部署组件解析安装项
	Client *client.AssetClient
}

// NewModule 创建资源组件模块实例
func NewModule() *Module {
	internalApp := app.NewApp()
	return &Module{
		internalApp: internalApp,
		Client:      client.NewAssetClient(internalApp),
	}
}
