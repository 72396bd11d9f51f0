package stdout

import (
	"bufio"
	"context"
	"io"
	"os"

	"codeminimap/pkg/contract"
)

// Options: stdout Writer 选项。
type Options struct {
	// BufSize: 写缓冲区大小；<=0 使用默认 64KiB。
	BufSize int `json:"buf_size,omitempty"`
}

// Stdout 将输出写到进程标准输出。ArtifactID 被忽略。
type Stdout struct {
	out     io.Writer
	bufSize int
}

var _ contract.Writer = (*Stdout)(nil)

func New(opts *Options) *Stdout {
	b := 64 * 1024
	if opts != nil && opts.BufSize > 0 {
		b = opts.BufSize
	}
	return &Stdout{out: os.Stdout, bufSize: b}
}

// Open 返回带缓冲的 Sink；Close 刷新但不关闭 stdout。
func (w *Stdout) Open(ctx context.Context, _ contract.ArtifactID) (contract.Sink, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return &sink{bw: bufio.NewWriterSize(w.out, w.bufSize)}, nil
}

type sink struct {
	bw *bufio.Writer
}

func (s *sink) Write(p []byte) (int, error) { return s.bw.Write(p) }

func (s *sink) Close() error { return s.bw.Flush() }

// Abort 尽量交付已渲染的行；标准输出无法回滚。
func (s *sink) Abort() error { return s.bw.Flush() }
