package service

import (
	"context"
	"os"
	"path/filepath"
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

func okResult() *executor.CommandResult {
	return &executor.CommandResult{Status: executor.CommandStatusSuccess, ExitCode: 0}
}

func newTestInstaller(t *testing.T, results map[string]*executor.CommandResult) (*InstallService, *fakeExecutor, string, string) {
	t.Helper()
	certRoot := t.TempDir()
	webroot := t.TempDir()
	exec := &fakeExecutor{results: results}
	return NewInstallService(certRoot, webroot, exec, logger.InitLogger("error", nil)), exec, certRoot, webroot
}

func TestInstallWritesCertAndReloads(t *testing.T) {
	s, exec, certRoot, webroot := newTestInstaller(t, map[string]*executor.CommandResult{
		"nginx -t":               okResult(),
		"systemctl reload nginx": okResult(),
	})

	err := s.Install(context.Background(), "demo.test", "FULLCHAIN", "PRIVKEY")
	require.NoError(t, err)

	fullchain := filepath.Join(certRoot, "demo.test", "fullchain.pem")
	content, err := os.ReadFile(fullchain)
	require.NoError(t, err)
	assert.Equal(t, "FULLCHAIN", string(content))

	privkey := filepath.Join(certRoot, "demo.test", "privkey.pem")
	content, err = os.ReadFile(privkey)
	require.NoError(t, err)
	assert.Equal(t, "PRIVKEY", string(content))

	info, err := os.Stat(privkey)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "私钥不允许其他用户读取")

	conf, err := os.ReadFile(filepath.Join(webroot, "demo.test", "conf", "nginx", "ssl.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(conf), "listen 443 ssl")
	assert.Contains(t, string(conf), "ssl_certificate "+fullchain)
	assert.Contains(t, string(conf), "ssl_certificate_key "+privkey)

	require.Equal(t, []string{"nginx -t", "systemctl reload nginx"}, exec.calls)
}

func TestInstallAbortsReloadOnBadConfig(t *testing.T) {
	s, exec, _, _ := newTestInstaller(t, map[string]*executor.CommandResult{
		"nginx -t": {
			Status: executor.CommandStatusFailed, ExitCode: 1,
			Stderr: `nginx: [emerg] unexpected "}" in /etc/nginx/nginx.conf:42`,
		},
	})

	err := s.Install(context.Background(), "demo.test", "FULLCHAIN", "PRIVKEY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nginx 配置校验未通过")
	assert.NotContains(t, exec.calls, "systemctl reload nginx", "配置校验失败后不能热加载")
}
