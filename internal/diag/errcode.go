package diag

import (
	"context"
	"errors"
	"os"
	"time"

	"codeminimap/pkg/contract"
)

// Code 是最小错误分类代码。
// 仅用于日志/指标汇总，与退出码解耦。
type Code string

const (
	CodeUnknown    Code = "unknown"
	CodeSource     Code = "source"
	CodeDecode     Code = "decode"
	CodeSinkClosed Code = "sink_closed"
	CodeInvariant  Code = "invariant"
	CodeCancel     Code = "cancel"
	CodeIO         Code = "io"
)

// Classify 将错误归为最小分类。
// 说明：仅依赖哨兵错误、errno 与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	if errors.Is(err, contract.ErrSinkClosed) || IsBrokenPipe(err) {
		return CodeSinkClosed
	}
	if errors.Is(err, contract.ErrSourceUnavailable) {
		return CodeSource
	}
	if errors.Is(err, contract.ErrDecode) {
		return CodeDecode
	}
	if errors.Is(err, contract.ErrInvalidInput) || errors.Is(err, contract.ErrPathInvalid) {
		return CodeInvariant
	}
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}

// IsBrokenPipe 报告 err 是否表示输出端已被对方关闭。
// os.ErrClosed 一并视为关闭；具体 errno 见平台文件。
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrClosed) {
		return true
	}
	return isBrokenPipeErrno(err)
}

// NowUTC 返回 RFC3339 UTC 时间字符串（用于结构化日志字段 ts）。
func NowUTC() string { return time.Now().UTC().Format(time.RFC3339) }
