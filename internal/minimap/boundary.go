package minimap

import (
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Boundary: 半开区间 [Begin, End)，覆盖一行（或一组行）的非空白内容。
// 零值 {0,0} 即“空”，不包含任何位置。
type Boundary struct {
	Begin int
	End   int
}

// Empty 报告区间是否不含任何位置。
func (b Boundary) Empty() bool { return b.End <= b.Begin }

// Contains 报告 x 是否满足 Begin <= x < End。
func (b Boundary) Contains(x int) bool { return b.Begin <= x && x < b.End }

// Merge 返回两区间的包络（min Begin, max End）；空区间不参与。
func (b Boundary) Merge(o Boundary) Boundary {
	if b.Empty() {
		return o.norm()
	}
	if o.Empty() {
		return b
	}
	if o.Begin < b.Begin {
		b.Begin = o.Begin
	}
	if o.End > b.End {
		b.End = o.End
	}
	return b
}

// norm 把任意空区间统一为零值。
func (b Boundary) norm() Boundary {
	if b.Empty() {
		return Boundary{}
	}
	return b
}

// Columns 选择位置计数方式。
type Columns string

const (
	// ColumnsRunes: 每个 Unicode 标量值计 1 个位置（默认）。
	ColumnsRunes Columns = "runes"
	// ColumnsCells: 按终端显示宽度计数（宽字符 2，组合字符 0）。
	ColumnsCells Columns = "cells"
)

// Valid 报告取值是否受支持（空串视为默认 runes）。
func (c Columns) Valid() bool {
	switch c {
	case "", ColumnsRunes, ColumnsCells:
		return true
	}
	return false
}

func (c Columns) width() func(rune) int {
	if c == ColumnsCells {
		return runewidth.RuneWidth
	}
	return nil
}

// Extract 计算一行首个与末个非空白字符的位置。
// 位置基于已解码的字符序列，不是字节偏移；width 为 nil 时每个字符宽 1。
// 全空白行返回空区间。
func Extract(line string, width func(rune) int) Boundary {
	begin, end := -1, 0
	pos := 0
	for _, r := range line {
		w := 1
		if width != nil {
			w = width(r)
		}
		if !unicode.IsSpace(r) {
			if begin < 0 {
				begin = pos
			}
			end = pos + w
		}
		pos += w
	}
	if begin < 0 {
		return Boundary{}
	}
	// 零宽字符收尾时仍至少占 1 个位置
	if end <= begin {
		end = begin + 1
	}
	return Boundary{Begin: begin, End: end}
}
