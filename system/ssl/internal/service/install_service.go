package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/executor"
)

// CertInstaller 把签发好的证书装到站点上并生效
type CertInstaller interface {
	Install(ctx context.Context, domain, fullchainPem, privkeyPem string) error
}

// DefaultCertRoot 证书落盘目录，沿用 certbot 的 live 布局，驱动工具能直接识别
const DefaultCertRoot = "/etc/letsencrypt/live"

// nginx 站点 ssl 片段，站点 vhost 会 include conf/nginx/*.conf
const sslConfTemplate = `listen 443 ssl http2;
listen [::]:443 ssl http2;
ssl_certificate %s;
ssl_certificate_key %s;
`

// InstallService 把 PEM 写进证书目录、给站点挂上 nginx ssl 配置并热加载
type InstallService struct {
	certRoot string
	webroot  string
	exec     executor.Executor
	log      *logger.Log
	err      *errorc.ErrorBuilder
}

// NewInstallService certRoot 为空时使用 DefaultCertRoot
func NewInstallService(certRoot, webroot string, exec executor.Executor, log *logger.Log) *InstallService {
	if certRoot == "" {
		certRoot = DefaultCertRoot
	}
	return &InstallService{
		certRoot: certRoot,
		webroot:  webroot,
		exec:     exec,
		log:      log,
		err:      errorc.NewErrorBuilder("InstallService"),
	}
}

// Install 写入证书文件和站点 ssl 配置，校验通过后热加载 nginx
func (s *InstallService) Install(ctx context.Context, domain, fullchainPem, privkeyPem string) error {
	liveDir := filepath.Join(s.certRoot, domain)
	if err := os.MkdirAll(liveDir, 0o755); err != nil {
		return s.err.New("创建证书目录失败："+liveDir, err).WithTraceID(ctx)
	}

	fullchain := filepath.Join(liveDir, "fullchain.pem")
	if err := os.WriteFile(fullchain, []byte(fullchainPem), 0o644); err != nil {
		return s.err.New("写入证书链失败", err).WithTraceID(ctx)
	}
	// 私钥只允许 root 读取
	privkey := filepath.Join(liveDir, "privkey.pem")
	if err := os.WriteFile(privkey, []byte(privkeyPem), 0o600); err != nil {
		return s.err.New("写入证书私钥失败", err).WithTraceID(ctx)
	}

	confDir := filepath.Join(s.webroot, domain, "conf", "nginx")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		return s.err.New("创建站点配置目录失败："+confDir, err).WithTraceID(ctx)
	}
	conf := fmt.Sprintf(sslConfTemplate, fullchain, privkey)
	if err := os.WriteFile(filepath.Join(confDir, "ssl.conf"), []byte(conf), 0o644); err != nil {
		return s.err.New("写入站点 ssl 配置失败", err).WithTraceID(ctx)
	}

	if err := s.reloadNginx(ctx); err != nil {
		return err
	}

	s.log.WithField("domain", domain).Info("证书已安装并生效")
	return nil
}

// reloadNginx 先校验配置再热加载，避免坏配置打断在线站点
func (s *InstallService) reloadNginx(ctx context.Context) error {
	check, err := s.exec.Run(ctx, "nginx", "-t")
	if err != nil {
		return s.err.New("校验 nginx 配置失败", err).Third().WithTraceID(ctx)
	}
	if !check.Success() {
		return s.err.New("nginx 配置校验未通过："+strings.TrimSpace(check.Stderr), nil).
			Third().WithTraceID(ctx)
	}

	reload, err := s.exec.Run(ctx, "systemctl", "reload", "nginx")
	if err != nil {
		return s.err.New("热加载 nginx 失败", err).Third().WithTraceID(ctx)
	}
	if !reload.Success() {
		return s.err.New("热加载 nginx 失败："+strings.TrimSpace(reload.Stderr), nil).
			Third().WithTraceID(ctx)
	}
	return nil
}
