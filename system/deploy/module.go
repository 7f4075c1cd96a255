package deploy

import (
	"context"
	"time"

	"wopanel/base"
	"wopanel/system/deploy/internal/app"
)

// Module 部署组件模块门面
type Module struct {
	internalApp *app.App
}

// NewModule 创建部署组件模块实例。
// resolver 由资源组件提供，credentials 与 certs 决定站点创建时的证书验证策略
func NewModule(resolver app.AssetResolver, credentials app.CredentialSource, certs app.CertIssuer) *Module {
	return &Module{
		internalApp: app.NewApp(resolver, credentials, certs),
	}
}

// EvictStale 清理终结超过 24 小时的内存进度记录和超过 90 天的落库历史，
// 由定时任务调用
func (m *Module) EvictStale(ctx context.Context) {
	evicted := m.internalApp.EvictTerminated(time.Now().Add(-24 * time.Hour))
	if evicted > 0 {
		base.Logger.WithField("evicted", evicted).Info("已清理终结的部署进度记录")
	}

	pruned, err := m.internalApp.PruneHistory(ctx, time.Now().AddDate(0, 0, -90))
	if err != nil {
		base.Logger.WithErr(err).Error("清理部署历史失败")
		return
	}
	if pruned > 0 {
		base.Logger.WithField("pruned", pruned).Info("已清理过期部署历史")
	}
}
