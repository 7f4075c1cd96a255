package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"wopanel/pkg/core/logger"

	"github.com/google/uuid"
)

// CommandStatus 命令执行状态
type CommandStatus string

const (
	CommandStatusSuccess CommandStatus = "success"
	CommandStatusFailed  CommandStatus = "failed"
	CommandStatusTimeout CommandStatus = "timeout"
)

// CommandResult 一次外部命令调用的结构化结果
type CommandResult struct {
	CommandID string        `json:"commandId"`
	Status    CommandStatus `json:"status"`
	ExitCode  int           `json:"exitCode"`
	Stdout    string        `json:"stdout"`
	Stderr    string        `json:"stderr"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Success 判断命令是否成功退出
func (r *CommandResult) Success() bool {
	return r.Status == CommandStatusSuccess && r.ExitCode == 0
}

// CombinedOutput 合并标准输出与标准错误（已去除 ANSI 转义）
func (r *CommandResult) CombinedOutput() string {
	out := strings.TrimSpace(r.Stdout)
	errOut := strings.TrimSpace(r.Stderr)
	if out == "" {
		return errOut
	}
	if errOut == "" {
		return out
	}
	return out + "\n" + errOut
}

// Executor 本地命令执行器接口
type Executor interface {
	// Run 执行一条命令，返回结构化结果；外部工具调用失败不返回 error，
	// 而是体现在结果的 ExitCode/Status 上，只有无法启动进程时才返回 error
	Run(ctx context.Context, name string, args ...string) (*CommandResult, error)
	// RunWithStdin 执行命令并向标准输入写入内容（用于交互式密码输入）
	RunWithStdin(ctx context.Context, stdin string, name string, args ...string) (*CommandResult, error)
}

// LocalExecutor 在面板所在主机上直接执行命令
type LocalExecutor struct {
	timeout time.Duration
	log     *logger.Log
}

// NewLocalExecutor 创建本地执行器，timeout 为单条命令的最长执行时间
func NewLocalExecutor(timeout time.Duration, log *logger.Log) *LocalExecutor {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &LocalExecutor{
		timeout: timeout,
		log:     log.WithEntryName("LocalExecutor"),
	}
}

func (e *LocalExecutor) Run(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	return e.RunWithStdin(ctx, "", name, args...)
}

func (e *LocalExecutor) RunWithStdin(ctx context.Context, stdin string, name string, args ...string) (*CommandResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	commandID := uuid.NewString()
	start := time.Now()

	cmd := exec.CommandContext(runCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	e.log.WithField("commandId", commandID).WithField("command", name+" "+strings.Join(args, " ")).Debug("执行外部命令")

	err := cmd.Run()
	result := &CommandResult{
		CommandID: commandID,
		Stdout:    CleanANSI(stdout.String()),
		Stderr:    CleanANSI(stderr.String()),
		Duration:  time.Since(start),
	}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		result.Status = CommandStatusTimeout
		result.ExitCode = -1
		result.Error = "命令执行超时"
	case err == nil:
		result.Status = CommandStatusSuccess
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Status = CommandStatusFailed
			result.ExitCode = exitErr.ExitCode()
			result.Error = err.Error()
		} else {
			// 进程本身没能启动（命令不存在、权限不足）
			return nil, err
		}
	}

	e.log.WithField("commandId", commandID).
		WithField("exitCode", result.ExitCode).
		WithField("duration", result.Duration.String()).
		Debug("外部命令执行完成")

	return result, nil
}

var ansiEscape = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// CleanANSI 去除 CLI 输出中的 ANSI 转义序列
func CleanANSI(text string) string {
	return ansiEscape.ReplaceAllString(text, "")
}
