package site

import (
	"wopanel/system/site/internal/app"
)

// Module 站点组件模块门面
type Module struct {
	internalApp *app.App
}

// NewModule 创建站点组件模块实例
func NewModule() *Module {
	return &Module{
		internalApp: app.NewApp(),
	}
}
