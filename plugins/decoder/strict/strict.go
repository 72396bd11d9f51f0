package strict

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"codeminimap/pkg/contract"
	"codeminimap/plugins/splitter/lines"
)

// Options: 与行切分器共用（buf_size/strip_bom/max_line_bytes）。
type Options struct {
	lines.Options
}

// Decoder 严格 UTF-8：遇到非法字节序列即失败（ErrDecode）。
type Decoder struct {
	opts lines.Options
}

var _ contract.Decoder = (*Decoder)(nil)

// New 创建严格解码器。
func New(opts *Options) *Decoder {
	d := &Decoder{}
	if opts != nil {
		d.opts = opts.Options
	}
	return d
}

// Lines 以 UTF8Validator 校验字节流后按行切分。
func (d *Decoder) Lines(r io.Reader) contract.LineSource {
	o := d.opts
	return &source{sp: lines.New(transform.NewReader(r, encoding.UTF8Validator), &o)}
}

type source struct {
	sp *lines.Splitter
}

func (s *source) Next() (string, error) {
	line, err := s.sp.Next()
	if err != nil && errors.Is(err, encoding.ErrInvalidUTF8) {
		return "", fmt.Errorf("%w: line %d", contract.ErrDecode, s.sp.Line()+1)
	}
	return line, err
}
