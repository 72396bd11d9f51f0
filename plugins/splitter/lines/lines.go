package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"codeminimap/pkg/contract"
)

// Options 为行切分器的可选配置（最小必要）。
type Options struct {
	// BufSize: 读缓冲区大小（字节）。<=0 使用默认 64KiB。
	BufSize int `json:"buf_size"`
	// StripBOM: 去除首行开头的 U+FEFF。
	StripBOM bool `json:"strip_bom"`
	// MaxLineBytes: 单行最大字节数（不含换行）。0 表示不限制。
	MaxLineBytes int `json:"max_line_bytes"`
}

// Splitter 把已解码的 UTF-8 字节流按 "\n" 切分为行。
// 行尾 "\r\n" 归一为行结束；末尾换行之后不产生额外空行。
type Splitter struct {
	br       *bufio.Reader
	stripBOM bool
	maxBytes int

	line int
	err  error
}

var _ contract.LineSource = (*Splitter)(nil)

// New 创建 Splitter。
func New(r io.Reader, opts *Options) *Splitter {
	bsz := 64 * 1024
	s := &Splitter{}
	if opts != nil {
		if opts.BufSize > 0 {
			bsz = opts.BufSize
		}
		s.stripBOM = opts.StripBOM
		s.maxBytes = opts.MaxLineBytes
	}
	s.br = bufio.NewReaderSize(r, bsz)
	return s
}

// Line 返回已产出的行数（即最近一行的 1 基行号）。
func (s *Splitter) Line() int { return s.line }

// Next 返回下一行；流结束返回 io.EOF。错误具有粘性。
func (s *Splitter) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	line, eof, err := readTrimmedLine(s.br)
	if err != nil {
		s.err = err
		return "", err
	}
	if eof {
		s.err = io.EOF
		return "", io.EOF
	}
	if s.line == 0 && s.stripBOM {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	s.line++
	if s.maxBytes > 0 && len(line) > s.maxBytes {
		s.err = fmt.Errorf("%w: line %d too long: %d > %d bytes", contract.ErrInvalidInput, s.line, len(line), s.maxBytes)
		return "", s.err
	}
	return line, nil
}

// readTrimmedLine 读取一行并去除结尾换行（\n 或 \r\n）；返回该行、是否已无内容可读。
func readTrimmedLine(br *bufio.Reader) (line string, eof bool, err error) {
	s, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			eof = true
		} else {
			return "", false, err
		}
	}
	if eof && s == "" {
		return "", true, nil
	}
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, false, nil
}
