package ssl

import (
	"context"

	"wopanel/base"
	"wopanel/system/ssl/internal/app"
	"wopanel/system/ssl/internal/service"
)

// Module 证书组件模块门面
type Module struct {
	internalApp *app.App
}

// NewModule 创建证书组件模块实例，credentials 由配置组件提供
func NewModule(credentials service.CredentialSource) *Module {
	return &Module{
		internalApp: app.NewApp(credentials),
	}
}

// IssueCertificate 为域名签发证书，返回实际使用的验证方式。
// 供部署组件在站点创建后调用
func (m *Module) IssueCertificate(ctx context.Context, domain string) (string, error) {
	method, err := m.internalApp.CertificateService.Issue(ctx, domain)
	return string(method), err
}

// RenewExpiring 续期临近过期的证书，由定时任务调用
func (m *Module) RenewExpiring(ctx context.Context) {
	if err := m.internalApp.CertificateService.RenewExpiring(ctx); err != nil {
		base.Logger.WithErr(err).Error("证书续期任务执行失败")
	}
}
