package errorc

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"wopanel/pkg/core/consts"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrorBuilder 携带入口名称的错误构造器，各层各自创建
type ErrorBuilder struct {
	entryName string
}

func NewErrorBuilder(entryName string) *ErrorBuilder {
	return &ErrorBuilder{entryName: entryName}
}

func (e *ErrorBuilder) New(msg string, err error) *Error {
	stack := callerInfo(2)
	stack.Msg = msg
	stack.Cause = err
	stack.Entry = e.entryName
	stack.ErrorCode = codeOf(err)
	return stack
}

// New err or msg can be nil
func New(msg string, err error) *Error {
	stack := callerInfo(2)
	stack.Msg = msg
	stack.Cause = err
	stack.ErrorCode = codeOf(err)
	return stack
}

func (e *Error) WithTraceID(ctx context.Context) *Error {
	if ctx != nil {
		if traceID, ok := ctx.Value(consts.TraceKey).(string); ok {
			e.TraceID = traceID
		}
	}
	return e
}

func (e *Error) WithEntry(entry string) *Error {
	e.Entry = entry
	return e
}

func (e *Error) WithCode(code *ErrorCode) *Error {
	e.ErrorCode = code
	return e
}

func (e *Error) DB() *Error {
	if e.Code == 404 {
		return e
	}
	e.ErrorCode = ErrorCodeDB
	return e
}

func (e *Error) Third() *Error {
	e.ErrorCode = ErrorCodeThird
	return e
}

func (e *Error) ValidWithCtx() *Error {
	e.ErrorCode = ErrorCodeValid
	return e
}

func (e *Error) NoAuth() *Error {
	e.ErrorCode = ErrorCodeNoAuth
	return e
}

func (e *Error) Forbidden() *Error {
	e.ErrorCode = ErrorCodeForbidden
	return e
}

func (e *Error) NotFound() *Error {
	e.ErrorCode = ErrorCodeNotFound
	return e
}

func (e *Error) Unavailable() *Error {
	e.ErrorCode = ErrorCodeUnavailable
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	chain := e.chain()
	root, original := rootCause(chain)

	var sb strings.Builder
	sb.WriteString(root.Msg)
	if original != nil {
		sb.WriteString(fmt.Sprintf(": %v", original))
	}
	if root.FileName != "" {
		sb.WriteString(fmt.Sprintf(" at %s:%d", root.FileName, root.Line))
	}
	return sb.String()
}

// RootCause 返回根因错误的简短描述，用于日志行和部署记录
func (e *Error) RootCause() string {
	if e == nil {
		return ""
	}

	chain := e.chain()
	root, original := rootCause(chain)
	if root == nil {
		return e.Msg
	}

	var sb strings.Builder
	sb.WriteString(root.Msg)
	if original != nil {
		sb.WriteString(fmt.Sprintf(": %v", original))
	}
	return sb.String()
}

// ToLog 将错误链写入日志并返回自身，便于在 controller 中 return
func (e *Error) ToLog(log *logrus.Entry, msgs ...string) *Error {
	if e == nil {
		return nil
	}

	chain := e.chain()
	root, original := rootCause(chain)

	fields := make(map[string]interface{})
	if root != nil {
		fields["root_cause_file"] = root.FileName
		fields["root_cause_line"] = root.Line
		fields["root_cause_func"] = root.FuncName
		fields["root_cause_msg"] = root.Msg
		if original != nil {
			fields["root_cause_original_error"] = original.Error()
		}
		if root.ErrorCode != nil {
			fields["root_cause_error_code"] = root.ErrorCode.String()
		}
	}
	if e.TraceID != "" {
		fields["trace_id"] = e.TraceID
	}
	if e.Entry != "" {
		fields["entry"] = e.Entry
	}

	finalMsg := e.Msg
	if len(msgs) > 0 {
		finalMsg = strings.Join(msgs, ", ")
	}

	log.WithFields(fields).Error(finalMsg)
	return e
}

// chain 收集错误链（外层在前）
func (e *Error) chain() []*Error {
	var chain []*Error
	curr := e
	for {
		chain = append(chain, curr)
		if cause, ok := curr.Cause.(*Error); ok {
			curr = cause
		} else {
			break
		}
	}
	return chain
}

// rootCause 查找根因：第一个包装了非 *Error 错误的节点
func rootCause(chain []*Error) (*Error, error) {
	for i := len(chain) - 1; i >= 0; i-- {
		err := chain[i]
		if err.Cause != nil {
			if _, ok := err.Cause.(*Error); !ok {
				return err, err.Cause
			}
		}
	}
	if len(chain) > 0 {
		last := chain[len(chain)-1]
		return last, last.Cause
	}
	return nil, nil
}

func callerInfo(skip int) *Error {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return &Error{
			FileName: "<unknown>",
			FuncName: "<unknown>",
		}
	}

	funcName := "<unknown>"
	if details := runtime.FuncForPC(pc); details != nil {
		funcName = details.Name()
	}

	return &Error{
		FileName: file,
		Line:     line,
		FuncName: funcName,
	}
}

func codeOf(err error) *ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorCodeNotFound
	}
	var e *Error
	if errors.As(err, &e) && e.ErrorCode != nil {
		return e.ErrorCode
	}
	return ErrorCodeUnknown
}

// ParseError 将任意错误规整为 *Error，用于统一的 HTTP 错误响应
func ParseError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		if e.ErrorCode == nil {
			e.ErrorCode = ErrorCodeUnknown
		}
		return e
	}
	return &Error{
		ErrorCode: codeOf(err),
		Msg:       err.Error(),
		Cause:     err,
	}
}

// IsNotFound 判断错误是否为未找到
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ErrorCode == ErrorCodeNotFound
	}
	return false
}
