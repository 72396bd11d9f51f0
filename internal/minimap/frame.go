package minimap

import (
	"errors"
	"io"
)

// FrameRows: 每帧（即每个输出行）聚合的点阵行数。
const FrameRows = 4

// Frame: 自上而下的 4 个区间，对应一个盲文字符的 4 行点。
type Frame [FrameRows]Boundary

// Scale 将每行区间两端按 factor 截断缩放。
func (f Frame) Scale(factor float64) Frame {
	for i, b := range f {
		if b.Empty() {
			f[i] = Boundary{}
			continue
		}
		f[i] = Boundary{Begin: scale(b.Begin, factor), End: scale(b.End, factor)}
	}
	return f
}

// MaxEnd 返回 4 行中最大的 End；全空时为 0。
// 缩放后退化为空的区间仍计入其 End，与渲染宽度随 hscale 单调的约定一致。
func (f Frame) MaxEnd() int {
	m := 0
	for _, b := range f {
		if b.End > m {
			m = b.End
		}
	}
	return m
}

// frames 每 4 个 Row 组成一帧；末尾不足 4 行时以空区间补齐。
type frames struct {
	rows *rows
	done bool

	count int64
}

// Next 返回下一帧；没有更多行时返回 io.EOF。
func (fb *frames) Next() (Frame, error) {
	var f Frame
	if fb.done {
		return f, io.EOF
	}
	n := 0
	for n < FrameRows {
		r, err := fb.rows.Next()
		if errors.Is(err, io.EOF) {
			fb.done = true
			break
		}
		if err != nil {
			return Frame{}, err
		}
		f[n] = r.Bounds
		n++
	}
	if n == 0 {
		return f, io.EOF
	}
	fb.count++
	return f, nil
}
