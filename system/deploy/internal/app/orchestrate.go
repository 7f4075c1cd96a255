package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"wopanel/pkg/wo"
	"wopanel/pkg/wp"
	assetdto "wopanel/system/asset/api/dto"
	"wopanel/system/deploy/internal/model"
	"wopanel/system/deploy/internal/model/dto"
)

// Provisioner 站点创建驱动
type Provisioner interface {
	SiteCreate(ctx context.Context, opts wo.CreateOptions) (string, error)
}

// ContentManager 站点内容管理工具
type ContentManager interface {
	Install(ctx context.Context, domain string, kind wp.AssetKind, locator string) error
	Activate(ctx context.Context, domain string, kind wp.AssetKind, slug string) error
	InstallAutoLogin(ctx context.Context, domain string) error
}

// AssetResolver 安装项定位符解析器，由资源组件实现
type AssetResolver interface {
	Resolve(ctx context.Context, locator string, kind assetdto.AssetKind) (*assetdto.AssetReference, error)
}

// HistoryRecorder 部署历史落库，可为 nil（不记录）
type HistoryRecorder interface {
	Record(ctx context.Context, record *model.DeployRecord) error
}

// CredentialSource DNS 验证凭证来源，由配置组件实现，可为 nil
type CredentialSource interface {
	CloudflareCredentials(ctx context.Context) (email string, apiKey string, ok bool, err error)
}

// CertIssuer DNS-01 证书签发，由证书组件实现，可为 nil
type CertIssuer interface {
	IssueCertificate(ctx context.Context, domain string) (string, error)
}

// Submit 校验请求并调度后台部署，立即返回
// 同一域名重复提交时覆盖旧记录（不排队）
func (a *App) Submit(ctx context.Context, req *dto.CreateSiteReq) (*dto.SubmitResp, error) {
	domains := NormalizeDomains(req.Domains)
	if len(domains) == 0 {
		return nil, a.err.New("域名不能为空", nil).ValidWithCtx()
	}

	stack := wo.ParseStack(req.Stack)

	// 安装项在提交阶段解析，仓库外的本地路径同步拒绝
	activateRaw := make(map[string]bool, len(req.Activate))
	for _, locator := range req.Activate {
		activateRaw[strings.TrimSpace(locator)] = true
	}

	install := make([]assetdto.AssetReference, 0, len(req.Install))
	activate := make(map[string]bool, len(req.Activate))
	for _, locator := range req.Install {
		ref, err := a.resolver.Resolve(ctx, locator, "")
		if err != nil {
			return nil, err
		}
		install = append(install, *ref)
		if activateRaw[strings.TrimSpace(locator)] {
			activate[ref.Locator] = true
		}
	}

	cfg := model.TargetConfig{
		Stack:     stack,
		AdminUser: req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Install:   install,
		Activate:  activate,
	}

	for _, domain := range domains {
		a.store.Reset(domain, cfg)
	}

	a.log.WithField("domains", domains).WithField("stack", string(stack)).Info("部署请求已入队")

	// 脱离请求上下文执行，工作协程的生命周期不随 HTTP 请求结束
	go a.runBatch(context.Background(), domains)

	return &dto.SubmitResp{Domains: domains}, nil
}

// runBatch 串行处理一批域名，单个域名失败不中断后续域名
func (a *App) runBatch(ctx context.Context, domains []string) {
	for i, domain := range domains {
		if len(domains) > 1 {
			a.store.AppendLog(domain, fmt.Sprintf("[%d/%d] 当前目标：%s", i+1, len(domains), domain), model.StyleInfo)
		}
		a.runTarget(ctx, domain)
	}
}

// runTarget 执行单个域名的完整部署流程
// 任何错误都终结在日志与状态记录里，绝不向外传播
func (a *App) runTarget(ctx context.Context, domain string) {
	cfg, ok := a.store.Config(domain)
	if !ok {
		return
	}
	startedAt := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.log.WithField("domain", domain).WithField("panic", r).Error("部署过程发生 panic")
			a.store.AppendLog(domain, fmt.Sprintf("CRITICAL: %v", r), model.StyleError)
			a.store.Finish(domain, false, "Failed")
			a.recordHistory(ctx, domain, cfg, startedAt)
		}
	}()

	a.store.Advance(domain, 10, model.StatusAllocating)
	a.store.AppendLog(domain, fmt.Sprintf("开始创建站点 %s（%s 架构）", domain, cfg.Stack), model.StyleInfo)

	// 证书验证策略在本次执行内只判定一次：
	// 有 Cloudflare DNS 凭证走 DNS-01（创建后签发），否则在创建时走 HTTP-01
	useDNS := a.hasDNSCredentials(ctx)

	output, err := a.provisioner.SiteCreate(ctx, wo.CreateOptions{
		Domain:      domain,
		Email:       cfg.Email,
		AdminUser:   cfg.AdminUser,
		Password:    cfg.Password,
		Stack:       cfg.Stack,
		LetsEncrypt: !useDNS,
	})
	if err != nil {
		// 站点创建失败是工作流级失败：跳过剩余步骤，不回滚已产生的副作用
		a.store.AppendLog(domain, "站点创建失败："+err.Error(), model.StyleError)
		a.store.Finish(domain, false, "Failed: site creation")
		a.recordHistory(ctx, domain, cfg, startedAt)
		return
	}
	if line := lastNonEmptyLine(output); line != "" {
		a.store.AppendLog(domain, line, "")
	}
	a.store.AppendLog(domain, "站点创建完成", model.StyleSuccess)

	if useDNS && a.certs != nil {
		// DNS-01 签发失败不终止部署，站点先以 HTTP 提供服务
		if method, err := a.certs.IssueCertificate(ctx, domain); err != nil {
			a.store.AppendLog(domain, "签发证书失败："+err.Error(), model.StyleError)
		} else {
			a.store.AppendLog(domain, fmt.Sprintf("证书已签发并安装（%s）", method), model.StyleSuccess)
		}
	}

	a.store.Advance(domain, 50, model.StatusConfiguring)

	total := len(cfg.Install)
	for i, ref := range cfg.Install {
		a.store.Advance(domain, 60+i*30/total, "")
		a.installAsset(ctx, domain, ref, cfg.Activate[ref.Locator])
	}

	a.store.Advance(domain, 95, model.StatusFinalizing)
	if err := a.content.InstallAutoLogin(ctx, domain); err != nil {
		a.store.AppendLog(domain, "安装免密登录助手失败："+err.Error(), model.StyleError)
	}

	a.store.Finish(domain, true, model.StatusComplete)
	a.store.AppendLog(domain, "部署完成", model.StyleSuccess)
	a.recordHistory(ctx, domain, cfg, startedAt)
}

// installAsset 安装并按需激活单个资源，失败只影响该资源
func (a *App) installAsset(ctx context.Context, domain string, ref assetdto.AssetReference, activate bool) {
	kind := wp.AssetKind(ref.Kind)

	a.store.AppendLog(domain, fmt.Sprintf("安装%s：%s", kindLabel(ref.Kind), ref.Name), "")
	if err := a.content.Install(ctx, domain, kind, ref.Locator); err != nil {
		a.store.AppendLog(domain, fmt.Sprintf("安装 %s 失败：%s", ref.Name, err.Error()), model.StyleError)
		return
	}

	if !activate {
		return
	}
	if err := a.content.Activate(ctx, domain, kind, ActivationSlug(ref)); err != nil {
		a.store.AppendLog(domain, fmt.Sprintf("激活 %s 失败：%s", ref.Name, err.Error()), model.StyleError)
		return
	}
	a.store.AppendLog(domain, fmt.Sprintf("%s 已激活", ref.Name), model.StyleSuccess)
}

// hasDNSCredentials 查询配置里是否存在 Cloudflare DNS 验证凭证
func (a *App) hasDNSCredentials(ctx context.Context) bool {
	if a.credentials == nil {
		return false
	}
	_, _, ok, err := a.credentials.CloudflareCredentials(ctx)
	if err != nil {
		a.log.WithErr(err).Error("读取 Cloudflare 凭证失败，回落到 HTTP-01 验证")
		return false
	}
	return ok
}

func (a *App) recordHistory(ctx context.Context, domain string, cfg model.TargetConfig, startedAt time.Time) {
	if a.recorder == nil {
		return
	}

	snap := a.store.Snapshot(domain, 0)
	lines := make([]string, 0, len(snap.LogEntries))
	for _, entry := range snap.LogEntries {
		lines = append(lines, entry.Time.Format("15:04:05")+" "+entry.Text)
	}

	record := &model.DeployRecord{
		Domain:     domain,
		Stack:      string(cfg.Stack),
		Success:    snap.ProgressPercent == 100,
		Progress:   snap.ProgressPercent,
		Status:     snap.StatusMessage,
		Log:        strings.Join(lines, "\n"),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	if err := a.recorder.Record(ctx, record); err != nil {
		a.log.WithField("domain", domain).WithErr(err).Error("保存部署历史失败")
	}
}

// NormalizeDomains 拆分并清洗域名输入：按空白和逗号切分、去空、去重
func NormalizeDomains(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	seen := make(map[string]struct{}, len(fields))
	domains := make([]string, 0, len(fields))
	for _, field := range fields {
		domain := strings.ToLower(strings.TrimSpace(field))
		if domain == "" {
			continue
		}
		if _, dup := seen[domain]; dup {
			continue
		}
		seen[domain] = struct{}{}
		domains = append(domains, domain)
	}
	return domains
}

// ActivationSlug 计算激活用的资源标识：
// 官方仓库资源就是 slug，本地压缩包取文件名去前缀去扩展名
func ActivationSlug(ref assetdto.AssetReference) string {
	if ref.Origin != assetdto.OriginLocal {
		return ref.Locator
	}
	name := filepath.Base(ref.Locator)
	name = strings.TrimPrefix(name, "plugin_")
	name = strings.TrimPrefix(name, "theme_")
	return strings.TrimSuffix(name, ".zip")
}

func kindLabel(kind assetdto.AssetKind) string {
	if kind == assetdto.KindTheme {
		return "主题"
	}
	return "插件"
}

func lastNonEmptyLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
