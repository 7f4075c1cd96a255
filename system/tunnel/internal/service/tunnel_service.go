package service

import (
	"context"
	"strings"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/executor"
)

// 隧道运行状态
const (
	StatusRunning      = "Running"
	StatusStopped      = "Stopped"
	StatusError        = "Error"
	StatusNotInstalled = "Not Installed"
)

// Status cloudflared 隧道状态
type Status struct {
	Installed bool   `json:"installed"`
	State     string `json:"state"`
	Binary    string `json:"binary,omitempty"`
}

// TunnelService 管理 cloudflared 隧道守护进程
type TunnelService struct {
	exec executor.Executor
	log  *logger.Log
	err  *errorc.ErrorBuilder
}

// NewTunnelService 创建隧道服务实例
func NewTunnelService(exec executor.Executor, log *logger.Log) *TunnelService {
	return &TunnelService{
		exec: exec,
		log:  log,
		err:  errorc.NewErrorBuilder("TunnelService"),
	}
}

// Status 查询 cloudflared 安装与运行状态
// 未安装和未运行都不是错误，只有执行环境异常才返回 error
func (s *TunnelService) Status(ctx context.Context) (*Status, error) {
	which, err := s.exec.Run(ctx, "which", "cloudflared")
	if err != nil {
		return nil, s.err.New("检查 cloudflared 是否安装失败", err).Third().WithTraceID(ctx)
	}
	if !which.Success() {
		return &Status{Installed: false, State: StatusNotInstalled}, nil
	}
	binary := strings.TrimSpace(which.Stdout)

	active, err := s.exec.Run(ctx, "systemctl", "is-active", "cloudflared")
	if err != nil {
		return nil, s.err.New("查询 cloudflared 服务状态失败", err).Third().WithTraceID(ctx)
	}

	state := StatusStopped
	switch strings.TrimSpace(active.Stdout) {
	case "active":
		state = StatusRunning
	case "failed":
		state = StatusError
	}
	return &Status{Installed: true, State: state, Binary: binary}, nil
}

const (
	debURL      = "https://github.com/cloudflare/cloudflared/releases/latest/download/cloudflared-linux-amd64.deb"
	serviceUnit = "/etc/systemd/system/cloudflared.service"
)

// Install 安装 cloudflared 并用隧道令牌注册 systemd 服务
// 二进制已存在时跳过下载，令牌为空时只装不注册
func (s *TunnelService) Install(ctx context.Context, token string) (*Status, error) {
	token = strings.TrimSpace(token)
	if token != "" && !strings.HasPrefix(token, "ey") {
		return nil, s.err.New("隧道令牌格式不正确，应以 ey 开头", nil).ValidWithCtx().WithTraceID(ctx)
	}

	status, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Installed {
		if err := s.installBinary(ctx); err != nil {
			return nil, err
		}
	}

	if token != "" {
		if err := s.register(ctx, token); err != nil {
			return nil, err
		}
	}
	return s.Status(ctx)
}

func (s *TunnelService) installBinary(ctx context.Context) error {
	download, err := s.exec.Run(ctx, "wget", "-q", "-O", "/tmp/cloudflared.deb", debURL)
	if err != nil {
		return s.err.New("下载 cloudflared 安装包失败", err).Third().WithTraceID(ctx)
	}
	if !download.Success() {
		return s.err.New("下载 cloudflared 安装包失败："+strings.TrimSpace(download.Stderr), nil).
			Third().WithTraceID(ctx)
	}

	install, err := s.exec.Run(ctx, "dpkg", "-i", "/tmp/cloudflared.deb")
	if err != nil {
		return s.err.New("安装 cloudflared 失败", err).Third().WithTraceID(ctx)
	}
	if !install.Success() {
		return s.err.New("安装 cloudflared 失败："+strings.TrimSpace(install.Stderr), nil).
			Third().WithTraceID(ctx)
	}

	s.exec.Run(ctx, "rm", "-f", "/tmp/cloudflared.deb")
	s.log.Info("cloudflared 安装完成")
	return nil
}

// register 重建 systemd 服务并绑定令牌
// service install 遇到残留的旧单元会直接报错，所以先清理再装
func (s *TunnelService) register(ctx context.Context, token string) error {
	// 之前没注册过时 uninstall 会失败，忽略
	s.exec.Run(ctx, "cloudflared", "service", "uninstall")
	s.exec.Run(ctx, "rm", "-f", serviceUnit)
	s.exec.Run(ctx, "systemctl", "daemon-reload")

	install, err := s.exec.Run(ctx, "cloudflared", "service", "install", token)
	if err != nil {
		return s.err.New("注册隧道服务失败", err).Third().WithTraceID(ctx)
	}
	if !install.Success() {
		return s.err.New("注册隧道服务失败："+strings.TrimSpace(install.Stderr), nil).
			Third().WithTraceID(ctx)
	}

	start, err := s.exec.Run(ctx, "systemctl", "start", "cloudflared")
	if err != nil {
		return s.err.New("启动隧道服务失败", err).Third().WithTraceID(ctx)
	}
	if !start.Success() {
		return s.err.New("启动隧道服务失败："+strings.TrimSpace(start.Stderr), nil).
			Third().WithTraceID(ctx)
	}

	s.log.Info("隧道服务注册完成")
	return nil
}

// Start 启动 cloudflared 服务
func (s *TunnelService) Start(ctx context.Context) error {
	return s.systemctl(ctx, "start")
}

// Stop 停止 cloudflared 服务
func (s *TunnelService) Stop(ctx context.Context) error {
	return s.systemctl(ctx, "stop")
}

// Restart 重启 cloudflared 服务
func (s *TunnelService) Restart(ctx context.Context) error {
	return s.systemctl(ctx, "restart")
}

func (s *TunnelService) systemctl(ctx context.Context, action string) error {
	result, err := s.exec.Run(ctx, "systemctl", action, "cloudflared")
	if err != nil {
		return s.err.New("执行 systemctl "+action+" 失败", err).Third().WithTraceID(ctx)
	}
	if !result.Success() {
		return s.err.New("systemctl "+action+" cloudflared 失败："+strings.TrimSpace(result.Stderr), nil).
			Third().WithTraceID(ctx)
	}
	s.log.WithField("action", action).Info("cloudflared 服务操作完成")
	return nil
}
