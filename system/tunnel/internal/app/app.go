package app

import (
	"wopanel/base"
	"wopanel/system/tunnel/internal/service"
)

// App 隧道组件应用组合根
type App struct {
	TunnelService *service.TunnelService
}

// NewApp 创建隧道应用实例
func NewApp() *App {
	log := base.Logger.WithEntryName("TunnelApp")
	return &App{
		TunnelService: service.NewTunnelService(base.Executor, log),
	}
}
