package service

import (
	"context"
	"strings"
	"testing"

	"wopanel/pkg/core/logger"
	"wopanel/pkg/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	results map[string]*executor.CommandResult
	calls   []string
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args ...string) (*executor.CommandResult, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmd)
	for prefix, result := range f.results {
		if strings.HasPrefix(cmd, prefix) {
			return result, nil
		}
	}
	return &executor.CommandResult{Status: executor.CommandStatusFailed, ExitCode: 1}, nil
}

func (f *fakeExecutor) RunWithStdin(ctx context.Context, stdin string, name string, args ...string) (*executor.CommandResult, error) {
	return f.Run(ctx, name, args...)
}

func ok(stdout string) *executor.CommandResult {
	return &executor.CommandResult{Status: executor.CommandStatusSuccess, ExitCode: 0, Stdout: stdout}
}

func failed(stdout string) *executor.CommandResult {
	return &executor.CommandResult{Status: executor.CommandStatusFailed, ExitCode: 3, Stdout: stdout}
}

func newService(results map[string]*executor.CommandResult) (*TunnelService, *fakeExecutor) {
	exec := &fakeExecutor{results: results}
	return NewTunnelService(exec, logger.InitLogger("error", nil)), exec
}

func TestStatusNotInstalled(t *testing.T) {
	s, _ := newService(map[string]*executor.CommandResult{
		"which cloudflared": failed(""),
	})

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Installed)
	assert.Equal(t, StatusNotInstalled, status.State)
}

func TestStatusRunning(t *testing.T) {
	s, _ := newService(map[string]*executor.CommandResult{
		"which cloudflared":               ok("/usr/local/bin/cloudflared\n"),
		"systemctl is-active cloudflared": ok("active\n"),
	})

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Installed)
	assert.Equal(t, StatusRunning, status.State)
	assert.Equal(t, "/usr/local/bin/cloudflared", status.Binary)
}

func TestStatusStoppedAndError(t *testing.T) {
	s, _ := newService(map[string]*executor.CommandResult{
		"which cloudflared":               ok("/usr/local/bin/cloudflared\n"),
		"systemctl is-active cloudflared": failed("inactive\n"),
	})
	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusStopped, status.State)

	s, _ = newService(map[string]*executor.CommandResult{
		"which cloudflared":               ok("/usr/local/bin/cloudflared\n"),
		"systemctl is-active cloudflared": failed("failed\n"),
	})
	status, err = s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusError, status.State)
}

func TestInstallSkipsWhenAlreadyInstalled(t *testing.T) {
	s, _ := newService(map[string]*executor.CommandResult{
		"which cloudflared":               ok("/usr/local/bin/cloudflared\n"),
		"systemctl is-active cloudflared": ok("active\n"),
		// dpkg 未配置桩：被调用会返回失败，测试随之失败
	})

	status, err := s.Install(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, status.Installed)
	assert.Equal(t, StatusRunning, status.State)
}

func TestInstallRejectsBadToken(t *testing.T) {
	s, exec := newService(nil)

	_, err := s.Install(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "令牌格式不正确")
	assert.Empty(t, exec.calls, "令牌校验失败时不应执行任何命令")
}

func TestInstallRegistersWithToken(t *testing.T) {
	s, exec := newService(map[string]*executor.CommandResult{
		"which cloudflared":                   ok("/usr/local/bin/cloudflared\n"),
		"systemctl is-active cloudflared":     ok("active\n"),
		"cloudflared service uninstall":       failed("not installed\n"),
		"cloudflared service install eyJhbGc": ok(""),
		"rm -f":                               ok(""),
		"systemctl daemon-reload":             ok(""),
		"systemctl start cloudflared":         ok(""),
	})

	status, err := s.Install(context.Background(), "eyJhbGc.token")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status.State)

	// 先清理旧注册，再用令牌重装服务
	uninstallAt, installAt := -1, -1
	for i, call := range exec.calls {
		switch {
		case call == "cloudflared service uninstall":
			uninstallAt = i
		case strings.HasPrefix(call, "cloudflared service install "):
			installAt = i
			assert.Equal(t, "cloudflared service install eyJhbGc.token", call)
		}
	}
	require.GreaterOrEqual(t, uninstallAt, 0)
	require.GreaterOrEqual(t, installAt, 0)
	assert.Less(t, uninstallAt, installAt)
	assert.Contains(t, exec.calls, "systemctl start cloudflared")
}

func TestInstallRegistrationFailure(t *testing.T) {
	s, _ := newService(map[string]*executor.CommandResult{
		"which cloudflared":               ok("/usr/local/bin/cloudflared\n"),
		"systemctl is-active cloudflared": ok("active\n"),
		"cloudflared service uninstall":   ok(""),
		"rm -f":                           ok(""),
		"systemctl daemon-reload":         ok(""),
		"cloudflared service install": {
			Status: executor.CommandStatusFailed, ExitCode: 1,
			Stderr: "provided token is invalid",
		},
	})

	_, err := s.Install(context.Background(), "eyJhbGc.bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "注册隧道服务失败")
}

func TestRestartFailure(t *testing.T) {
	s, _ := newService(map[string]*executor.CommandResult{
		"systemctl restart cloudflared": {
			Status: executor.CommandStatusFailed, ExitCode: 1,
			Stderr: "Unit cloudflared.service not found.",
		},
	})

	err := s.Restart(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
