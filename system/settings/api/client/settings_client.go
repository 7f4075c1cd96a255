package client

import (
	"context"

	"wopanel/system/settings/internal/app"
)

// SettingsClient 供其他组件读取面板配置的对外客户端
type SettingsClient struct {
	app *app.App
}

func NewSettingsClient(app *app.App) *SettingsClient {
	return &SettingsClient{app: app}
}

// Get 读取配置值，不存在时返回空串
func (c *SettingsClient) Get(ctx context.Context, key string) (string, error) {
	return c.app.SettingService.Get(ctx, key)
}

// CloudflareCredentials 读取 Cloudflare DNS 凭证
func (c *SettingsClient) CloudflareCredentials(ctx context.Context) (email string, apiKey string, ok bool, err error) {
	return c.app.SettingService.CloudflareCredentials(ctx)
}
