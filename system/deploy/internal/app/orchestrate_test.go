package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"wopanel/pkg/core/logger"
	"wopanel/pkg/wo"
	"wopanel/pkg/wp"
	assetdto "wopanel/system/asset/api/dto"
	"wopanel/system/deploy/internal/model"
	"wopanel/system/deploy/internal/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvisioner struct {
	mu      sync.Mutex
	delay   time.Duration
	fail    map[string]bool
	created []string
}

func (f *fakeProvisioner) SiteCreate(ctx context.Context, opts wo.CreateOptions) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[opts.Domain] {
		return "", errors.New("wo site create 退出码 1")
	}
	f.created = append(f.created, opts.Domain)
	return "Successfully created site http://" + opts.Domain, nil
}

func (f *fakeProvisioner) createdDomains() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.created...)
}

type fakeContent struct {
	mu        sync.Mutex
	failing   map[string]bool
	installed []string
	activated []string
	autologin []string
}

func (f *fakeContent) Install(ctx context.Context, domain string, kind wp.AssetKind, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[locator] {
		return errors.New("下载失败")
	}
	f.installed = append(f.installed, domain+":"+locator)
	return nil
}

func (f *fakeContent) Activate(ctx context.Context, domain string, kind wp.AssetKind, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, domain+":"+slug)
	return nil
}

func (f *fakeContent) InstallAutoLogin(ctx context.Context, domain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autologin = append(f.autologin, domain)
	return nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, locator string, kind assetdto.AssetKind) (*assetdto.AssetReference, error) {
	if strings.Contains(locator, "..") {
		return nil, errors.New("路径超出资源仓库范围")
	}
	origin := assetdto.OriginCatalog
	if strings.HasPrefix(locator, "/") {
		origin = assetdto.OriginLocal
	}
	return &assetdto.AssetReference{
		Name:    locator,
		Kind:    assetdto.KindPlugin,
		Origin:  origin,
		Locator: locator,
	}, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []*model.DeployRecord
}

func (f *fakeRecorder) Record(ctx context.Context, record *model.DeployRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRecorder) all() []*model.DeployRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.DeployRecord{}, f.records...)
}

type fakeCredentials struct{ present bool }

func (f fakeCredentials) CloudflareCredentials(ctx context.Context) (string, string, bool, error) {
	if !f.present {
		return "", "", false, nil
	}
	return "ops@example.com", "cf-key", true, nil
}

type fakeCertIssuer struct {
	mu      sync.Mutex
	issued  []string
	failing bool
}

func (f *fakeCertIssuer) IssueCertificate(ctx context.Context, domain string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return "", errors.New("dns-01 验证超时")
	}
	f.issued = append(f.issued, domain)
	return "dns-01", nil
}

func newTestApp(p *fakeProvisioner, c *fakeContent, r *fakeRecorder) *App {
	return NewAppWith(p, c, fakeResolver{}, r, nil, nil, logger.InitLogger("error", nil))
}

// waitDone 轮询直到目标终结，超时视为测试失败
func waitDone(t *testing.T, a *App, domain string) *model.Snapshot {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		snap := a.Snapshot(domain, 0)
		if !snap.IsActive && snap.StatusMessage != model.StatusUnknown {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("目标 %s 在超时前没有终结", domain)
	return nil
}

func TestSubmitReturnsImmediately(t *testing.T) {
	p := &fakeProvisioner{delay: 300 * time.Millisecond}
	a := newTestApp(p, &fakeContent{}, &fakeRecorder{})

	start := time.Now()
	resp, err := a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "slow.test",
		Username: "admin",
		Email:    "admin@slow.test",
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, []string{"slow.test"}, resp.Domains)
	assert.Less(t, elapsed, 150*time.Millisecond)

	snap := a.Snapshot("slow.test", 0)
	assert.True(t, snap.IsActive)
	assert.Less(t, snap.ProgressPercent, 100)

	waitDone(t, a, "slow.test")
}

func TestDeploySuccessMilestones(t *testing.T) {
	p := &fakeProvisioner{delay: 20 * time.Millisecond}
	c := &fakeContent{}
	r := &fakeRecorder{}
	a := newTestApp(p, c, r)

	_, err := a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "ok.test",
		Stack:    "redis",
		Username: "admin",
		Email:    "admin@ok.test",
		Install:  []string{"elementor", "wordpress-seo"},
		Activate: []string{"elementor"},
	})
	require.NoError(t, err)

	// 进度只增不减
	last := 0
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		snap := a.Snapshot("ok.test", 0)
		require.GreaterOrEqual(t, snap.ProgressPercent, last)
		last = snap.ProgressPercent
		if !snap.IsActive {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	snap := waitDone(t, a, "ok.test")
	assert.Equal(t, 100, snap.ProgressPercent)
	assert.Equal(t, model.StatusComplete, snap.StatusMessage)

	assert.Equal(t, []string{"ok.test"}, p.createdDomains())
	assert.ElementsMatch(t, []string{"ok.test:elementor", "ok.test:wordpress-seo"}, c.installed)
	assert.Equal(t, []string{"ok.test:elementor"}, c.activated)
	assert.Equal(t, []string{"ok.test"}, c.autologin)

	records := r.all()
	require.Len(t, records, 1)
	assert.True(t, records[0].Success)
	assert.Equal(t, "redis", records[0].Stack)
	assert.Contains(t, records[0].Log, "部署完成")
}

func TestSiteCreateFailureIsFatal(t *testing.T) {
	p := &fakeProvisioner{fail: map[string]bool{"bad.test": true}}
	c := &fakeContent{}
	r := &fakeRecorder{}
	a := newTestApp(p, c, r)

	_, err := a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "bad.test",
		Username: "admin",
		Email:    "admin@bad.test",
		Install:  []string{"elementor"},
	})
	require.NoError(t, err)

	snap := waitDone(t, a, "bad.test")
	assert.Less(t, snap.ProgressPercent, 100)
	assert.Equal(t, "Failed: site creation", snap.StatusMessage)

	// 创建失败后不再执行后续步骤
	assert.Empty(t, c.installed)
	assert.Empty(t, c.autologin)

	records := r.all()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestAssetFailureIsNonFatal(t *testing.T) {
	c := &fakeContent{failing: map[string]bool{"wordfence": true}}
	a := newTestApp(&fakeProvisioner{}, c, &fakeRecorder{})

	_, err := a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "ok.test",
		Username: "admin",
		Email:    "admin@ok.test",
		Install:  []string{"elementor", "wordfence", "astra"},
	})
	require.NoError(t, err)

	snap := waitDone(t, a, "ok.test")
	assert.Equal(t, 100, snap.ProgressPercent)
	assert.Equal(t, model.StatusComplete, snap.StatusMessage)
	assert.ElementsMatch(t, []string{"ok.test:elementor", "ok.test:astra"}, c.installed)

	var hasFailureLine bool
	for _, entry := range snap.LogEntries {
		if strings.Contains(entry.Text, "wordfence") && entry.Style == model.StyleError {
			hasFailureLine = true
		}
	}
	assert.True(t, hasFailureLine)
}

func TestBatchTargetsAreIndependent(t *testing.T) {
	p := &fakeProvisioner{fail: map[string]bool{"a.test": true}}
	c := &fakeContent{}
	a := newTestApp(p, c, &fakeRecorder{})

	_, err := a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "a.test, b.test",
		Username: "admin",
		Email:    "admin@a.test",
	})
	require.NoError(t, err)

	snapA := waitDone(t, a, "a.test")
	snapB := waitDone(t, a, "b.test")

	assert.Equal(t, "Failed: site creation", snapA.StatusMessage)
	assert.Equal(t, model.StatusComplete, snapB.StatusMessage)
	assert.Equal(t, 100, snapB.ProgressPercent)
	assert.Equal(t, []string{"b.test"}, p.createdDomains())
}

func TestResubmissionResetsTarget(t *testing.T) {
	a := newTestApp(&fakeProvisioner{}, &fakeContent{}, &fakeRecorder{})
	req := &dto.CreateSiteReq{
		Domains:  "again.test",
		Username: "admin",
		Email:    "admin@again.test",
	}

	_, err := a.Submit(context.Background(), req)
	require.NoError(t, err)
	first := waitDone(t, a, "again.test")
	assert.Equal(t, 100, first.ProgressPercent)

	_, err = a.Submit(context.Background(), req)
	require.NoError(t, err)

	snap := waitDone(t, a, "again.test")
	assert.Equal(t, 100, snap.ProgressPercent)
	// 第二次运行的日志是全新的，不叠加在第一次之上
	assert.LessOrEqual(t, snap.LogOffset, first.LogOffset)
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	a := newTestApp(&fakeProvisioner{}, &fakeContent{}, &fakeRecorder{})

	_, err := a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  " , \n ",
		Username: "admin",
		Email:    "a@b.test",
	})
	assert.Error(t, err)

	// 仓库外的本地路径在提交阶段同步拒绝
	_, err = a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "ok.test",
		Username: "admin",
		Email:    "a@b.test",
		Install:  []string{"/vault/../etc/passwd"},
	})
	assert.Error(t, err)
	assert.Equal(t, model.StatusUnknown, a.Snapshot("ok.test", 0).StatusMessage)
}

func TestCertificatePolicy(t *testing.T) {
	// 无 DNS 凭证：创建命令携带 HTTP-01 标志，不调用证书组件
	p := &fakeProvisioner{}
	certs := &fakeCertIssuer{}
	a := NewAppWith(p, &fakeContent{}, fakeResolver{}, nil, fakeCredentials{present: false}, certs, logger.InitLogger("error", nil))

	_, err := a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "http.test",
		Username: "admin",
		Email:    "a@b.test",
	})
	require.NoError(t, err)
	waitDone(t, a, "http.test")
	assert.Empty(t, certs.issued)

	// 有 DNS 凭证：创建后走 DNS-01 签发
	a = NewAppWith(&fakeProvisioner{}, &fakeContent{}, fakeResolver{}, nil, fakeCredentials{present: true}, certs, logger.InitLogger("error", nil))
	_, err = a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "dns.test",
		Username: "admin",
		Email:    "a@b.test",
	})
	require.NoError(t, err)
	snap := waitDone(t, a, "dns.test")
	assert.Equal(t, 100, snap.ProgressPercent)
	assert.Equal(t, []string{"dns.test"}, certs.issued)

	// 签发失败不终止部署
	failing := &fakeCertIssuer{failing: true}
	a = NewAppWith(&fakeProvisioner{}, &fakeContent{}, fakeResolver{}, nil, fakeCredentials{present: true}, failing, logger.InitLogger("error", nil))
	_, err = a.Submit(context.Background(), &dto.CreateSiteReq{
		Domains:  "dnsfail.test",
		Username: "admin",
		Email:    "a@b.test",
	})
	require.NoError(t, err)
	snap = waitDone(t, a, "dnsfail.test")
	assert.Equal(t, 100, snap.ProgressPercent)
	assert.Equal(t, model.StatusComplete, snap.StatusMessage)
}

func TestNormalizeDomains(t *testing.T) {
	domains := NormalizeDomains(" A.test,b.test\n b.test\tc.test ,, ")
	assert.Equal(t, []string{"a.test", "b.test", "c.test"}, domains)

	assert.Empty(t, NormalizeDomains("  ,\n"))
}

func TestActivationSlug(t *testing.T) {
	assert.Equal(t, "elementor", ActivationSlug(assetdto.AssetReference{
		Origin: assetdto.OriginCatalog, Locator: "elementor",
	}))
	assert.Equal(t, "my-plugin", ActivationSlug(assetdto.AssetReference{
		Origin: assetdto.OriginLocal, Locator: "/data/assets/plugin_my-plugin.zip",
	}))
	assert.Equal(t, "flatsome", ActivationSlug(assetdto.AssetReference{
		Origin: assetdto.OriginLocal, Locator: "/data/assets/theme_flatsome.zip",
	}))
}
