package contract

import (
	"context"
	"io"
)

// Reader: 输入源抽象（单个文件或 STDIN）。
// 约束：
// 1) path 为空或 "-" 表示 STDIN；
// 2) 只提供字节流，不做解码与按行切分；
// 3) 文件不存在/不可读/为目录时返回包裹 ErrSourceUnavailable 的错误；
// 4) 调用方负责 Close 返回的 ReadCloser。
type Reader interface {
	Open(ctx context.Context, path string) (FileID, io.ReadCloser, error)
}
