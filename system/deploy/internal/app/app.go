package app

import (
	"context"
	"time"

	"wopanel/base"
	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/wo"
	"wopanel/pkg/wp"
	"wopanel/system/deploy/internal/dao"
	"wopanel/system/deploy/internal/model"
)

// App 部署组件应用组合根
type App struct {
	store       *ProgressStore
	provisioner Provisioner
	content     ContentManager
	resolver    AssetResolver
	recorder    HistoryRecorder
	credentials CredentialSource
	certs       CertIssuer
	records     *dao.RecordDao
	log         *logger.Log
	err         *errorc.ErrorBuilder
}

// NewApp 创建部署应用实例：资源解析器由资源组件注入，
// DNS 凭证与证书签发分别来自配置组件和证书组件
func NewApp(resolver AssetResolver, credentials CredentialSource, certs CertIssuer) *App {
	log := base.Logger.WithEntryName("DeployApp")
	cfg := base.Configures.Config.WordOps
	records := dao.NewRecordDao(base.DB, log)

	return &App{
		store:       NewProgressStore(),
		provisioner: wo.NewDriver(cfg.WoPath, base.Executor, log),
		content:     wp.NewClient(cfg.WpPath, cfg.Webroot, base.Executor, log),
		resolver:    resolver,
		recorder:    records,
		credentials: credentials,
		certs:       certs,
		records:     records,
		log:         log,
		err:         errorc.NewErrorBuilder("DeployApp"),
	}
}

// NewAppWith 用显式依赖构造，供测试注入伪实现
func NewAppWith(provisioner Provisioner, content ContentManager, resolver AssetResolver,
	recorder HistoryRecorder, credentials CredentialSource, certs CertIssuer, log *logger.Log) *App {
	return &App{
		store:       NewProgressStore(),
		provisioner: provisioner,
		content:     content,
		resolver:    resolver,
		recorder:    recorder,
		credentials: credentials,
		certs:       certs,
		log:         log,
		err:         errorc.NewErrorBuilder("DeployApp"),
	}
}

// Snapshot 查询目标进度快照，after 之前的日志不重复返回
func (a *App) Snapshot(id string, after int) *model.Snapshot {
	return a.store.Snapshot(id, after)
}

// EvictTerminated 清理早于 before 终结的内存记录，返回清除数量
func (a *App) EvictTerminated(before time.Time) int {
	return a.store.EvictTerminated(before)
}

// History 查询部署历史，domain 为空时返回全局最近记录
func (a *App) History(ctx context.Context, domain string, limit int) ([]*model.DeployRecord, error) {
	if a.records == nil {
		return []*model.DeployRecord{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if domain != "" {
		return a.records.FindByDomain(ctx, domain, limit)
	}
	return a.records.FindRecent(ctx, limit)
}

// PruneHistory 删除结束时间早于 before 的落库历史
func (a *App) PruneHistory(ctx context.Context, before time.Time) (int64, error) {
	if a.records == nil {
		return 0, nil
	}
	return a.records.DeleteBefore(ctx, before)
}
