package contract

import "errors"

// 最小错误分类（用于退出码与日志分类）。
var (
	// ErrSourceUnavailable: 输入文件不存在、不可读或不是常规文件。
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrDecode: 严格模式下遇到非法 UTF-8 字节序列。
	ErrDecode = errors.New("invalid utf-8 sequence")
	// ErrSinkClosed: 输出端已关闭（如管道读端退出）。上层视为正常结束。
	ErrSinkClosed = errors.New("sink closed")
	// ErrInvalidInput: 参数越界（负缩放、NaN、负行号等）。
	ErrInvalidInput = errors.New("invalid input")
	// ErrPathInvalid: 输出路径无效（空、目录、"."）。
	ErrPathInvalid = errors.New("path invalid")
)
