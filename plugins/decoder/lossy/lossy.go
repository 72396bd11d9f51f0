package lossy

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"codeminimap/pkg/contract"
	"codeminimap/plugins/splitter/lines"
)

// Options: 与行切分器共用（buf_size/strip_bom/max_line_bytes）。
type Options struct {
	lines.Options
}

// Decoder 宽松 UTF-8：非法字节序列替换为 U+FFFD，内容本身永不导致失败。
// 位置按替换后的字符序列计数。
type Decoder struct {
	opts lines.Options
}

var _ contract.Decoder = (*Decoder)(nil)

// New 创建宽松解码器。
func New(opts *Options) *Decoder {
	d := &Decoder{}
	if opts != nil {
		d.opts = opts.Options
	}
	return d
}

// Lines 经 x/text 的 UTF-8 解码器替换非法序列后按行切分。
func (d *Decoder) Lines(r io.Reader) contract.LineSource {
	o := d.opts
	return lines.New(transform.NewReader(r, unicode.UTF8.NewDecoder()), &o)
}
