package minimap

import (
	"errors"
	"io"
	"math"

	"codeminimap/pkg/contract"
)

// Row: 垂直缩放后的输出行号（溢出时饱和为 math.MaxInt）及该组输入行的包络区间。
type Row struct {
	Index  int
	Bounds Boundary
}

// scale 以截断方式缩放非负整数；水平与垂直共用同一约定。
// 乘积超出 int 范围时饱和为 math.MaxInt，保持单调。
func scale(x int, factor float64) int {
	p := float64(x) * factor
	if p >= math.MaxInt {
		return math.MaxInt
	}
	return int(p)
}

// rows 按 floor(i×vscale) 将连续输入行分组，每组归约为一个 Row。
// 行号单调不减，因此单次前向遍历即可，无需回溯或排序。
type rows struct {
	src    contract.LineSource
	vscale float64
	width  func(rune) int

	next       int // 下一输入行的 0 基序号
	pending    *Row
	pendingKey int
	err        error

	lines int64
}

func newRows(src contract.LineSource, vscale float64, width func(rune) int) *rows {
	return &rows{src: src, vscale: vscale, width: width}
}

// Next 返回下一组；输入耗尽时返回 io.EOF。
func (a *rows) Next() (Row, error) {
	if a.pending == nil {
		if a.err != nil {
			return Row{}, a.err
		}
		if !a.read() {
			return Row{}, a.err
		}
	}
	cur, key := *a.pending, a.pendingKey
	a.pending = nil
	for a.read() {
		if a.pendingKey != key {
			return cur, nil
		}
		cur.Bounds = cur.Bounds.Merge(a.pending.Bounds)
		a.pending = nil
	}
	if errors.Is(a.err, io.EOF) {
		return cur, nil
	}
	// 组内读取失败：整组作废，立即上抛
	return Row{}, a.err
}

// read 读取一行到 pending；失败时记录 err 并返回 false。
func (a *rows) read() bool {
	line, err := a.src.Next()
	if err != nil {
		a.err = err
		return false
	}
	a.pending = &Row{Index: scale(a.next, a.vscale), Bounds: Extract(line, a.width)}
	a.pendingKey = a.group(a.next)
	a.next++
	a.lines++
	return true
}

// group 返回输入行 i 的分组键：同键的相邻行并入同一输出行。
// vscale >= 1 时相邻行的 floor(i×vscale) 至少相差 1，每行自成一组，
// 以 i 为键可避开 Index 饱和后多行同键；vscale < 1 时 i×vscale < i，不会溢出。
func (a *rows) group(i int) int {
	if a.vscale >= 1 {
		return i
	}
	return scale(i, a.vscale)
}
