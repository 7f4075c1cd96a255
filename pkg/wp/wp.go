package wp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/executor"

	"github.com/tidwall/gjson"
)

// AssetKind 资源类型
type AssetKind string

const (
	KindPlugin AssetKind = "plugin"
	KindTheme  AssetKind = "theme"
)

// InstalledAsset wp plugin/theme list --format=json 的一行
type InstalledAsset struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Client 对 wp-cli 的封装，所有命令以 root 身份在站点目录下执行
type Client struct {
	wpPath  string
	webroot string
	exec    executor.Executor
	log     *logger.Log
}

func NewClient(wpPath string, webroot string, exec executor.Executor, log *logger.Log) *Client {
	if wpPath == "" {
		wpPath = "/usr/local/bin/wp"
	}
	if webroot == "" {
		webroot = "/var/www"
	}
	return &Client{
		wpPath:  wpPath,
		webroot: webroot,
		exec:    exec,
		log:     log.WithEntryName("WpClient"),
	}
}

// SitePath 站点的 WordPress 安装目录
func (c *Client) SitePath(domain string) string {
	return filepath.Join(c.webroot, domain, "htdocs")
}

func (c *Client) run(ctx context.Context, domain string, args ...string) (*executor.CommandResult, error) {
	full := append(args, "--allow-root", "--path="+c.SitePath(domain))
	result, err := c.exec.Run(ctx, c.wpPath, full...)
	if err != nil {
		return nil, errorc.New("调用 wp-cli 失败", err).Third().WithTraceID(ctx)
	}
	return result, nil
}

// Install 安装插件或主题；locator 可以是官方仓库 slug，也可以是本地压缩包路径
func (c *Client) Install(ctx context.Context, domain string, kind AssetKind, locator string) error {
	result, err := c.run(ctx, domain, string(kind), "install", locator)
	if err != nil {
		return err
	}
	if !result.Success() {
		return errorc.New(fmt.Sprintf("安装 %s %s 失败：%s", kind, locator, lastLine(result.CombinedOutput())), nil).
			Third().WithTraceID(ctx)
	}
	return nil
}

// Activate 激活已安装的插件或主题，slug 为资源标识（本地包取文件名去扩展名）
func (c *Client) Activate(ctx context.Context, domain string, kind AssetKind, slug string) error {
	result, err := c.run(ctx, domain, string(kind), "activate", slug)
	if err != nil {
		return err
	}
	if !result.Success() {
		return errorc.New(fmt.Sprintf("激活 %s %s 失败：%s", kind, slug, lastLine(result.CombinedOutput())), nil).
			Third().WithTraceID(ctx)
	}
	return nil
}

// List 列出站点已安装的插件或主题
func (c *Client) List(ctx context.Context, domain string, kind AssetKind) ([]InstalledAsset, error) {
	result, err := c.run(ctx, domain, string(kind), "list", "--format=json")
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, errorc.New(fmt.Sprintf("获取 %s 列表失败：%s", kind, lastLine(result.CombinedOutput())), nil).
			Third().WithTraceID(ctx)
	}
	return ParseAssetList(result.Stdout), nil
}

// InstallAutoLogin 安装并激活后台免密登录助手插件
func (c *Client) InstallAutoLogin(ctx context.Context, domain string) error {
	if err := c.Install(ctx, domain, KindPlugin, "temporary-login-without-password"); err != nil {
		return err
	}
	return c.Activate(ctx, domain, KindPlugin, "temporary-login-without-password")
}

// AdminLoginURL 为站点管理员生成一次性登录链接
func (c *Client) AdminLoginURL(ctx context.Context, domain string, user string) (string, error) {
	result, err := c.run(ctx, domain, "user", "session", "create", user, "--porcelain")
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", errorc.New("生成登录链接失败："+lastLine(result.CombinedOutput()), nil).Third().WithTraceID(ctx)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// ParseAssetList 解析 wp-cli 的 JSON 输出，格式异常时返回空列表
func ParseAssetList(raw string) []InstalledAsset {
	parsed := gjson.Parse(strings.TrimSpace(raw))
	if !parsed.IsArray() {
		return nil
	}
	var assets []InstalledAsset
	parsed.ForEach(func(_, item gjson.Result) bool {
		assets = append(assets, InstalledAsset{
			Name:    item.Get("name").String(),
			Status:  item.Get("status").String(),
			Version: item.Get("version").String(),
		})
		return true
	})
	return assets
}

// lastLine 取输出最后一个非空行作为错误摘要
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
