package minimap

import (
	"strings"
	"unicode/utf8"
)

// BrailleBase: Unicode 盲文点字区起点 U+2800（无点）。
const BrailleBase rune = 0x2800

// DotPattern: 一个字符单元的 8 位占用码。
// 第 r 位（0..3）= 第 r 行左列有点；第 4+r 位 = 第 r 行右列有点。
type DotPattern uint8

// glyphs 把 DotPattern 映射为盲文码位，进程启动时计算一次，之后只读。
var glyphs = buildGlyphs()

// buildGlyphs 按 Unicode 点位编号重排位序：
// 左列 r0,r1,r2 → 点 1,2,3；右列 r0',r1',r2' → 点 4,5,6；r3 → 点 7；r3' → 点 8。
// 点 k 对应码位偏移的第 k-1 位。
func buildGlyphs() [256]rune {
	var t [256]rune
	for p := 0; p < 256; p++ {
		left, right := p&0x0f, p>>4
		dots := left&0b0111 | (right&0b0111)<<3 | (left>>3)<<6 | (right>>3)<<7
		t[p] = BrailleBase + rune(dots)
	}
	return t
}

// Glyph 返回占用码对应的盲文字符。
func Glyph(p DotPattern) rune { return glyphs[p] }

// Pattern 计算帧在位置对 (x, x+1) 上的占用码。
func Pattern(f Frame, x int) DotPattern {
	var p DotPattern
	for r, b := range f {
		if b.Contains(x) {
			p |= 1 << r
		}
		if b.Contains(x + 1) {
			p |= 1 << (FrameRows + r)
		}
	}
	return p
}

// EncodeFrame 将（已水平缩放的）帧编码为盲文串，每 2 个位置一个字符。
// padding > 0 时以空格右补齐到 padding 个字符。
func EncodeFrame(sb *strings.Builder, f Frame, padding int) {
	end := f.MaxEnd()
	glyphsN := end/2 + end%2
	n := 0
	for ; n < glyphsN; n++ {
		sb.WriteRune(Glyph(Pattern(f, 2*n)))
	}
	for ; n < padding; n++ {
		sb.WriteByte(' ')
	}
}

// glyphLen: 单个盲文字符的 UTF-8 字节数，用于预分配。
var glyphLen = utf8.RuneLen(BrailleBase)
