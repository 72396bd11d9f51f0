package minimap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"codeminimap/pkg/contract"
)

// TestRenderGolden 固定向量（与原工具测试集一致）。
func TestRenderGolden(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"空输入", "", ""},
		{"单字符", "a", "⠁\n"},
		{"满格", "aaaa\nbbbb\ncccc\ndddd", "⣿⣿\n"},
		{"阶梯", "aaa\n aa\n  a\n   a", "⠙⢇\n"},
		{"混合空白", "  a  b c\n d efg  \n    h  i\n jk", "⢐⡛⠿⠭\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RenderString(tc.in, DefaultOptions())
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestRenderIdempotent 同一输入重复渲染结果逐字节相同。
func TestRenderIdempotent(t *testing.T) {
	in := "func main() {\n\tfmt.Println(\"hi\")\n}\n\n// tail\n"
	a, err := RenderString(in, DefaultOptions())
	require.NoError(t, err)
	b, err := RenderString(in, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

// TestRenderFullWidth 4 行等长非空白内容产出 ceil(len/2) 个全点字符。
func TestRenderFullWidth(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8} {
		line := strings.Repeat("x", n)
		in := strings.Join([]string{line, line, line, line}, "\n")
		got, err := RenderString(in, DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, strings.Repeat("⣿", (n+1)/2)+"\n", got, "n=%d", n)
	}
}

// TestRenderFramePadding 4k+r 组产出 k+1 行，末帧缺行视为空白。
func TestRenderFramePadding(t *testing.T) {
	in := strings.Repeat("ab\n", 5)
	got, err := RenderString(in, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "⣿\n⠉\n", got)

	in = strings.Repeat("ab\n", 6)
	got, err = RenderString(in, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "⣿\n⠛\n", got)
}

// TestRenderWhitespaceFrame 全空白帧仍输出一行（空行）。
func TestRenderWhitespaceFrame(t *testing.T) {
	got, err := RenderString("   \n\t\n", DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "\n", got)
}

// TestRenderPadding 右补空格到指定宽度；超出宽度不截断。
func TestRenderPadding(t *testing.T) {
	opts := DefaultOptions()
	opts.Padding = 4
	got, err := RenderString("a", opts)
	require.NoError(t, err)
	require.Equal(t, "⠁   \n", got)

	opts.Padding = 1
	got, err = RenderString("aaaa\nbbbb\ncccc\ndddd", opts)
	require.NoError(t, err)
	require.Equal(t, "⣿⣿\n", got)
}

// TestRenderHScale 水平缩放（截断）。
func TestRenderHScale(t *testing.T) {
	cases := []struct {
		hscale float64
		in     string
		want   string
	}{
		{2, "a", "⠉\n"},
		{0.5, "aaaa", "⠉\n"},
		{0.5, "  a", "⠀\n"},
		{0, "aaaa\nbbbb", "\n"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("h=%v", tc.hscale), func(t *testing.T) {
			opts := DefaultOptions()
			opts.HScale = tc.hscale
			got, err := RenderString(tc.in, opts)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestRenderHScaleMonotonic 增大 hscale 不会减少渲染宽度。
func TestRenderHScaleMonotonic(t *testing.T) {
	in := "package main\n\n  import \"fmt\"\n\tfunc f() {}\n      x := 1 + 2\n"
	prev := -1
	for _, h := range []float64{0, 0.1, 0.25, 0.5, 0.75, 1, 1.5, 2, 3} {
		opts := DefaultOptions()
		opts.HScale = h
		got, err := RenderString(in, opts)
		require.NoError(t, err)
		w := 0
		for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
			if n := len([]rune(line)); n > w {
				w = n
			}
		}
		require.GreaterOrEqual(t, w, prev, "hscale=%v", h)
		prev = w
	}
}

// TestRenderVScale 垂直缩放：0.5 两行并一行；0 全部坍缩为一组。
func TestRenderVScale(t *testing.T) {
	opts := DefaultOptions()
	opts.VScale = 0.5
	// 组: [0,4) [5,6)
	got, err := RenderString("a\n  bb\n\n     c", opts)
	require.NoError(t, err)
	require.Equal(t, "⠉⠉⠐\n", got)

	opts.VScale = 0
	got, err = RenderString("a\n b\n  c\n   d\n    e\n     f", opts)
	require.NoError(t, err)
	require.Equal(t, "⠉⠉⠉\n", got)

	// 行号超出 int 范围时每行仍各自成行，与普通放大一致
	for _, v := range []float64{1e6, 1e19, 1e300, math.MaxFloat64} {
		opts.VScale = v
		got, err = RenderString("a\nb\nc\nd\ne\nf\ng\nh\n", opts)
		require.NoError(t, err)
		require.Equal(t, "⡇\n⡇\n", got, "vscale=%v", v)
	}
}

// TestScaleMonotonic 行号映射单调不减。
func TestScaleMonotonic(t *testing.T) {
	for _, v := range []float64{0, 0.1, 0.3, 0.5, 1, 1.7, 4, 1e19, 1e300} {
		prev := 0
		for i := 0; i < 1000; i++ {
			got := scale(i, v)
			require.GreaterOrEqual(t, got, prev, "vscale=%v i=%d", v, i)
			prev = got
		}
	}
	require.Equal(t, math.MaxInt, scale(1, 1e19))
	require.Equal(t, math.MaxInt, scale(2, 1e300))
	require.Equal(t, math.MaxInt, scale(math.MaxInt, 1))
	require.Equal(t, 0, scale(0, 1e300))
}

// TestRenderLineRange 行范围在缩放前过滤。
func TestRenderLineRange(t *testing.T) {
	in := "a\nb\nc\nd\ne"
	cases := []struct {
		name       string
		start, end int
		want       string
	}{
		{"中段", 2, 3, "⠃\n"},
		{"仅起点", 5, 0, "⠁\n"},
		{"起点为零", 0, 1, "⠁\n"},
		{"倒置", 4, 2, ""},
		{"超出末尾", 9, 12, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.StartLine, opts.EndLine = tc.start, tc.end
			got, err := RenderString(in, opts)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestRenderColumnsCells cells 模式按显示宽度计位。
func TestRenderColumnsCells(t *testing.T) {
	opts := DefaultOptions()
	got, err := RenderString("漢字", opts)
	require.NoError(t, err)
	require.Equal(t, "⠉\n", got)

	opts.Columns = ColumnsCells
	got, err = RenderString("漢字", opts)
	require.NoError(t, err)
	require.Equal(t, "⠉⠉\n", got)
}

// TestOptionsValidate 参数边界。
func TestOptionsValidate(t *testing.T) {
	nan := math.NaN()
	bad := []Options{
		{HScale: -1, VScale: 1},
		{HScale: 1, VScale: -0.5},
		{HScale: nan, VScale: 1},
		{HScale: 1, VScale: 1, Padding: -1},
		{HScale: 1, VScale: 1, StartLine: -2},
		{HScale: 1, VScale: 1, Columns: "bytes"},
	}
	for i, o := range bad {
		require.ErrorIs(t, o.Validate(), contract.ErrInvalidInput, "case %d", i)
	}
	require.NoError(t, Options{}.Validate())
	require.NoError(t, DefaultOptions().Validate())
}

type failingLines struct {
	lines []string
	err   error
}

func (f *failingLines) Next() (string, error) {
	if len(f.lines) == 0 {
		return "", f.err
	}
	l := f.lines[0]
	f.lines = f.lines[1:]
	return l, nil
}

// TestRenderSourceError 上游错误立即上抛，不输出半帧。
func TestRenderSourceError(t *testing.T) {
	src := &failingLines{
		lines: []string{"a", "b", "c", "d", "e"},
		err:   fmt.Errorf("line 6: %w", contract.ErrDecode),
	}
	var sb strings.Builder
	st, err := Render(context.Background(), src, &sb, DefaultOptions())
	require.ErrorIs(t, err, contract.ErrDecode)
	require.Equal(t, "⡇\n", sb.String())
	require.EqualValues(t, 1, st.Frames)
	require.EqualValues(t, 5, st.Lines)
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

// TestRenderWriteError 写失败原样返回。
func TestRenderWriteError(t *testing.T) {
	_, err := Render(context.Background(), StringLines("a"), errWriter{io.ErrClosedPipe}, DefaultOptions())
	require.True(t, errors.Is(err, io.ErrClosedPipe))
}

// TestRenderCanceled ctx 取消后停止。
func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var sb strings.Builder
	_, err := Render(ctx, StringLines("a\nb"), &sb, DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, sb.String())
}

// TestRenderStats 计数。
func TestRenderStats(t *testing.T) {
	var sb strings.Builder
	st, err := Render(context.Background(), StringLines("a\nb\nc\nd\ne\n"), &sb, DefaultOptions())
	require.NoError(t, err)
	require.EqualValues(t, 5, st.Lines)
	require.EqualValues(t, 2, st.Frames)
}

// BenchmarkRender 渲染一段典型源码。
func BenchmarkRender(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("\t", i%5), strings.Repeat("x := y + z; ", i%9))
	}
	in := sb.String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Render(context.Background(), StringLines(in), io.Discard, DefaultOptions()); err != nil {
			b.Fatal(err)
		}
	}
}
