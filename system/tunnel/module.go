package tunnel

import (
	"wopanel/system/tunnel/internal/app"
)

// Module 隧道组件模块门面
type Module struct {
	internalApp *app.App
}

// NewModule 创建隧道组件模块实例
func NewModule() *Module {
	return &Module{
		internalApp: app.NewApp(),
	}
}
