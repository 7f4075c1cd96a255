package wo

import (
	"context"
	"strings"
	"testing"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor 按命令前缀返回预置结果
type fakeExecutor struct {
	calls   []string
	results map[string]*executor.CommandResult
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{results: map[string]*executor.CommandResult{}}
}

func (f *fakeExecutor) on(prefix string, result *executor.CommandResult) {
	f.results[prefix] = result
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args ...string) (*executor.CommandResult, error) {
	return f.RunWithStdin(ctx, "", name, args...)
}

func (f *fakeExecutor) RunWithStdin(ctx context.Context, stdin string, name string, args ...string) (*executor.CommandResult, error) {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	for prefix, result := range f.results {
		if strings.HasPrefix(call, prefix) {
			return result, nil
		}
	}
	return &executor.CommandResult{Status: executor.CommandStatusSuccess}, nil
}

func ok(stdout string) *executor.CommandResult {
	return &executor.CommandResult{Status: executor.CommandStatusSuccess, Stdout: stdout}
}

func failed(stderr string) *executor.CommandResult {
	return &executor.CommandResult{Status: executor.CommandStatusFailed, ExitCode: 1, Stderr: stderr, Error: "exit status 1"}
}

func newTestDriver(f *fakeExecutor) *Driver {
	return NewDriver("/usr/local/bin/wo", f, logger.InitLogger("error", nil))
}

func TestSiteCreateCommand(t *testing.T) {
	f := newFakeExecutor()
	d := newTestDriver(f)

	_, err := d.SiteCreate(context.Background(), CreateOptions{
		Domain:    "blog.example.com",
		Email:     "admin@example.com",
		AdminUser: "admin",
		Stack:     StackRedis,
	})
	require.NoError(t, err)
	require.Len(t, f.calls, 1)
	assert.Equal(t,
		"/usr/local/bin/wo site create blog.example.com --wp --email=admin@example.com --user=admin --wpredis",
		f.calls[0])
}

func TestSiteCreateFastCGIDefault(t *testing.T) {
	f := newFakeExecutor()
	d := newTestDriver(f)

	_, err := d.SiteCreate(context.Background(), CreateOptions{
		Domain:    "blog.example.com",
		Email:     "admin@example.com",
		AdminUser: "admin",
		Stack:     StackFastCGI,
	})
	require.NoError(t, err)
	assert.Contains(t, f.calls[0], "--wpfc")
	assert.NotContains(t, f.calls[0], "-le")
}

func TestSiteCreateFailure(t *testing.T) {
	f := newFakeExecutor()
	f.on("/usr/local/bin/wo site create", failed("site already exists"))
	d := newTestDriver(f)

	output, err := d.SiteCreate(context.Background(), CreateOptions{
		Domain: "dup.example.com", Email: "a@b.c", AdminUser: "admin",
	})
	require.Error(t, err)
	assert.Contains(t, output, "site already exists")
	assert.Contains(t, err.Error(), "dup.example.com")
}

func TestSiteDeleteCommand(t *testing.T) {
	f := newFakeExecutor()
	d := newTestDriver(f)

	_, err := d.SiteDelete(context.Background(), "old.example.com")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/wo site delete old.example.com --no-prompt", f.calls[0])
}

func TestInfoNotFound(t *testing.T) {
	f := newFakeExecutor()
	f.on("/usr/local/bin/wo site info", failed("site does not exist"))
	d := newTestDriver(f)

	_, err := d.Info(context.Background(), "ghost.example.com")
	require.Error(t, err)
	assert.True(t, errorc.IsNotFound(err))
}

func TestSiteURL(t *testing.T) {
	f := newFakeExecutor()
	f.on("/usr/local/bin/wo site info blog.example.com --url", ok("https://blog.example.com\n"))
	d := newTestDriver(f)

	url, err := d.SiteURL(context.Background(), "blog.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com", url)
}

func TestSwitchPHP(t *testing.T) {
	f := newFakeExecutor()
	d := newTestDriver(f)

	_, err := d.SwitchPHP(context.Background(), "blog.example.com", "8.3")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/wo site update blog.example.com --php83", f.calls[0])

	_, err = d.SwitchPHP(context.Background(), "blog.example.com", "5.6")
	assert.Error(t, err)
}

func TestIssueCert(t *testing.T) {
	f := newFakeExecutor()
	d := newTestDriver(f)

	_, err := d.IssueCert(context.Background(), "blog.example.com")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/wo site update blog.example.com -le", f.calls[0])
}
