package minimap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"codeminimap/pkg/contract"
)

// Options: 渲染参数（纯标量，由 CLI/配置层给出）。
type Options struct {
	// HScale/VScale: 水平/垂直缩放因子，>= 0；0 合法（全部坍缩到第 0 列/行）。
	HScale float64
	VScale float64
	// Padding: 每个输出行以空格右补齐到的字符数；0 表示不补齐。
	Padding int
	// StartLine/EndLine: 1 基闭区间；0 表示未设置。
	StartLine int
	EndLine   int
	// Columns: 位置计数方式，空值等同 ColumnsRunes。
	Columns Columns
}

// DefaultOptions 返回 1:1 缩放、无补齐、全文范围的参数。
func DefaultOptions() Options {
	return Options{HScale: 1, VScale: 1, Columns: ColumnsRunes}
}

// Validate 拒绝负值、NaN 与无穷大。
func (o Options) Validate() error {
	if !validScale(o.HScale) {
		return fmt.Errorf("%w: horizontal scale %v", contract.ErrInvalidInput, o.HScale)
	}
	if !validScale(o.VScale) {
		return fmt.Errorf("%w: vertical scale %v", contract.ErrInvalidInput, o.VScale)
	}
	if o.Padding < 0 {
		return fmt.Errorf("%w: padding %d", contract.ErrInvalidInput, o.Padding)
	}
	if o.StartLine < 0 || o.EndLine < 0 {
		return fmt.Errorf("%w: line range %d..%d", contract.ErrInvalidInput, o.StartLine, o.EndLine)
	}
	if !o.Columns.Valid() {
		return fmt.Errorf("%w: columns %q", contract.ErrInvalidInput, o.Columns)
	}
	return nil
}

func validScale(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Stats: 单次渲染的计数。
type Stats struct {
	Lines  int64 // 读取的输入行（范围过滤之后）
	Frames int64 // 写出的输出行
}

const maxGrowGlyphs = 1 << 16

// Render 从 src 拉取行，逐帧写出盲文缩略图到 w。
// 每帧写出一行（以 "\n" 结尾）；输入为空时不写任何内容。
// 上游读取/解码错误与写错误立即返回，已写出的行不回滚。
func Render(ctx context.Context, src contract.LineSource, w io.Writer, opts Options) (st Stats, err error) {
	if err := opts.Validate(); err != nil {
		return st, err
	}
	src = LimitLines(src, opts.StartLine, opts.EndLine)
	agg := newRows(src, opts.VScale, opts.Columns.width())
	fb := &frames{rows: agg}
	defer func() {
		st.Lines = agg.lines
		st.Frames = fb.count
	}()

	var sb strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		f, err := fb.Next()
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		if err != nil {
			return st, err
		}
		f = f.Scale(opts.HScale)
		sb.Reset()
		// 预分配按上限截取；极大 hscale 下 MaxEnd 可达 math.MaxInt
		sb.Grow(min(f.MaxEnd()/2+1, maxGrowGlyphs)*glyphLen + min(opts.Padding, maxGrowGlyphs) + 1)
		EncodeFrame(&sb, f, opts.Padding)
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return st, err
		}
	}
}

// RenderString 渲染内存文本并返回结果。
func RenderString(text string, opts Options) (string, error) {
	var sb strings.Builder
	if _, err := Render(context.Background(), StringLines(text), &sb, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}
