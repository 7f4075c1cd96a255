package wo

import (
	"context"
	"fmt"
	"strings"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/executor"
)

// Stack 站点缓存架构
type Stack string

const (
	StackFastCGI Stack = "fastcgi" // --wpfc
	StackRedis   Stack = "redis"   // --wpredis
)

// ParseStack 解析前端提交的架构名，未知值回落到 fastcgi
func ParseStack(s string) Stack {
	if Stack(strings.ToLower(strings.TrimSpace(s))) == StackRedis {
		return StackRedis
	}
	return StackFastCGI
}

// CreateOptions wo site create 的参数
type CreateOptions struct {
	Domain    string
	Email     string
	AdminUser string
	// Password 为空时由 wo 自动生成
	Password string
	Stack    Stack
	// LetsEncrypt 为 true 时创建阶段即申请 HTTP-01 证书
	LetsEncrypt bool
}

// SiteInfo wo site info 输出的结构化摘要
type SiteInfo struct {
	Domain     string `json:"domain"`
	Type       string `json:"type"`
	PHPVersion string `json:"phpVersion"`
	SSL        bool   `json:"ssl"`
	URL        string `json:"url"`
}

// Driver 对 WordOps CLI 的封装，外部工具的退出码与输出统一转为结构化错误
type Driver struct {
	woPath string
	exec   executor.Executor
	log    *logger.Log
}

func NewDriver(woPath string, exec executor.Executor, log *logger.Log) *Driver {
	if woPath == "" {
		woPath = "/usr/local/bin/wo"
	}
	return &Driver{
		woPath: woPath,
		exec:   exec,
		log:    log.WithEntryName("WoDriver"),
	}
}

// SiteCreate 创建 WordPress 站点，返回 CLI 的合并输出
func (d *Driver) SiteCreate(ctx context.Context, opts CreateOptions) (string, error) {
	args := []string{"site", "create", opts.Domain, "--wp",
		fmt.Sprintf("--email=%s", opts.Email),
		fmt.Sprintf("--user=%s", opts.AdminUser),
	}
	if opts.Password != "" {
		args = append(args, fmt.Sprintf("--pass=%s", opts.Password))
	}
	if opts.Stack == StackRedis {
		args = append(args, "--wpredis")
	} else {
		args = append(args, "--wpfc")
	}
	if opts.LetsEncrypt {
		args = append(args, "-le")
	}

	result, err := d.exec.Run(ctx, d.woPath, args...)
	if err != nil {
		return "", errorc.New("调用 wo 命令失败", err).Third().WithTraceID(ctx)
	}
	if !result.Success() {
		return result.CombinedOutput(),
			errorc.New(fmt.Sprintf("创建站点 %s 失败：%s", opts.Domain, tail(result.CombinedOutput())), nil).
				Third().WithTraceID(ctx)
	}
	return result.CombinedOutput(), nil
}

// SiteDelete 删除站点（含数据库与站点目录），不做二次确认
func (d *Driver) SiteDelete(ctx context.Context, domain string) (string, error) {
	result, err := d.exec.Run(ctx, d.woPath, "site", "delete", domain, "--no-prompt")
	if err != nil {
		return "", errorc.New("调用 wo 命令失败", err).Third().WithTraceID(ctx)
	}
	if !result.Success() {
		return result.CombinedOutput(),
			errorc.New(fmt.Sprintf("删除站点 %s 失败：%s", domain, tail(result.CombinedOutput())), nil).
				Third().WithTraceID(ctx)
	}
	return result.CombinedOutput(), nil
}

// SiteList 列出已托管的站点域名
func (d *Driver) SiteList(ctx context.Context) ([]string, error) {
	result, err := d.exec.Run(ctx, d.woPath, "site", "list")
	if err != nil {
		return nil, errorc.New("调用 wo 命令失败", err).Third().WithTraceID(ctx)
	}
	if !result.Success() {
		return nil, errorc.New("获取站点列表失败："+tail(result.CombinedOutput()), nil).Third().WithTraceID(ctx)
	}
	return ParseSiteList(result.Stdout), nil
}

// Info 查询站点详情
func (d *Driver) Info(ctx context.Context, domain string) (*SiteInfo, error) {
	result, err := d.exec.Run(ctx, d.woPath, "site", "info", domain)
	if err != nil {
		return nil, errorc.New("调用 wo 命令失败", err).Third().WithTraceID(ctx)
	}
	if !result.Success() {
		return nil, errorc.New(fmt.Sprintf("站点 %s 不存在", domain), nil).NotFound().WithTraceID(ctx)
	}
	info := ParseSiteInfo(result.Stdout)
	info.Domain = domain
	return info, nil
}

// SiteURL 查询站点访问地址（用于后台自动登录跳转）
func (d *Driver) SiteURL(ctx context.Context, domain string) (string, error) {
	result, err := d.exec.Run(ctx, d.woPath, "site", "info", domain, "--url")
	if err != nil {
		return "", errorc.New("调用 wo 命令失败", err).Third().WithTraceID(ctx)
	}
	url := strings.TrimSpace(result.Stdout)
	if !result.Success() || !strings.HasPrefix(url, "http") {
		return "", errorc.New(fmt.Sprintf("站点 %s 不存在或未返回地址", domain), nil).NotFound().WithTraceID(ctx)
	}
	return url, nil
}

// SwitchPHP 切换站点 PHP 版本，version 形如 8.2
func (d *Driver) SwitchPHP(ctx context.Context, domain string, version string) (string, error) {
	flag, ok := phpFlags[version]
	if !ok {
		return "", errorc.New(fmt.Sprintf("不支持的 PHP 版本 %s", version), nil).ValidWithCtx().WithTraceID(ctx)
	}
	result, err := d.exec.Run(ctx, d.woPath, "site", "update", domain, flag)
	if err != nil {
		return "", errorc.New("调用 wo 命令失败", err).Third().WithTraceID(ctx)
	}
	if !result.Success() {
		return result.CombinedOutput(),
			errorc.New(fmt.Sprintf("切换站点 %s PHP 版本失败：%s", domain, tail(result.CombinedOutput())), nil).
				Third().WithTraceID(ctx)
	}
	return result.CombinedOutput(), nil
}

// IssueCert 为已存在的站点签发 Let's Encrypt HTTP-01 证书
func (d *Driver) IssueCert(ctx context.Context, domain string) (string, error) {
	result, err := d.exec.Run(ctx, d.woPath, "site", "update", domain, "-le")
	if err != nil {
		return "", errorc.New("调用 wo 命令失败", err).Third().WithTraceID(ctx)
	}
	if !result.Success() {
		return result.CombinedOutput(),
			errorc.New(fmt.Sprintf("为站点 %s 签发证书失败：%s", domain, tail(result.CombinedOutput())), nil).
				Third().WithTraceID(ctx)
	}
	return result.CombinedOutput(), nil
}

var phpFlags = map[string]string{
	"7.4": "--php74",
	"8.0": "--php80",
	"8.1": "--php81",
	"8.2": "--php82",
	"8.3": "--php83",
}

// SupportedPHPVersions 面板允许切换的 PHP 版本
func SupportedPHPVersions() []string {
	return []string{"7.4", "8.0", "8.1", "8.2", "8.3"}
}

// tail 截取输出的最后几行，避免错误信息里塞进整段安装日志
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) <= 3 {
		return strings.Join(lines, " | ")
	}
	return strings.Join(lines[len(lines)-3:], " | ")
}
