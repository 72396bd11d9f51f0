package filesystem

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"codeminimap/pkg/contract"
)

// Options 为 FileSystem Reader 的可选配置（最小必要）。
type Options struct {
	// BufSize 为读缓冲区大小（字节）。默认 64KiB。
	BufSize int `json:"buf_size"`
}

// FileSystem 实现基于文件系统与 STDIN 的 Reader。
type FileSystem struct {
	bufSize int
	stdin   io.Reader
}

var _ contract.Reader = (*FileSystem)(nil)

// New 创建 FileSystem Reader。
func New(opts *Options) *FileSystem {
	const defaultBuf = 64 * 1024
	b := defaultBuf
	if opts != nil && opts.BufSize > 0 {
		b = opts.BufSize
	}
	return &FileSystem{bufSize: b}
}

// Open 打开单个输入：空串或 "-" 为 STDIN；其余为文件路径。
// 目录、不存在或无权限的路径返回包裹 ErrSourceUnavailable 的错误。
// 管道、字符设备等非常规文件照常读取（如 <(cmd) 进程替换）。
func (r *FileSystem) Open(ctx context.Context, path string) (contract.FileID, io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return "", nil, ctx.Err()
	default:
	}

	if path == "" || path == "-" {
		in := r.stdin
		if in == nil {
			in = os.Stdin
		}
		// STDIN 不由我们关闭
		return contract.StdinID, newBufferedCloser(io.NopCloser(in), r.bufSize), nil
	}

	// os.Stat 跟随符号链接，判定的是目标类型
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", contract.ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s is a directory", contract.ErrSourceUnavailable, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", contract.ErrSourceUnavailable, err)
	}
	return contract.NormalizeFileID(path), newBufferedCloser(f, r.bufSize), nil
}

// bufferedCloser 将 bufio.Reader 与底层 Closer 组合为 ReadCloser。
type bufferedCloser struct {
	*bufio.Reader
	c io.Closer
}

func newBufferedCloser(c io.ReadCloser, bufSize int) *bufferedCloser {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	return &bufferedCloser{Reader: bufio.NewReaderSize(c, bufSize), c: c}
}

func (b *bufferedCloser) Close() error { return b.c.Close() }
