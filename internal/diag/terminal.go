package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Terminal: 终端状态提示（非日志，--status 开启）。
// - 输出到提供的 io.Writer（默认 stderr，与写往 stdout 的缩略图分离）。
// - TTY: 进度单行 \r 覆盖；非 TTY: 只打印开始与结束两行。
// - 并发安全；写失败后进入禁用态为 no-op。
type Terminal struct {
	w       io.Writer
	enabled bool
	isTTY   bool

	input    string
	encoding string
	runStart time.Time

	lastLen   int
	lastFlush time.Time

	mu sync.Mutex
}

// 进程级终端（可选，全局设置后供 pipeline 旁路调用）。
var (
	termMu sync.RWMutex
	cur    *Terminal
)

// SetTerminal 设置全局终端指针（nil 可清除）。
func SetTerminal(t *Terminal) { termMu.Lock(); cur = t; termMu.Unlock() }

// GetTerminal 返回全局终端（可能为 nil）。
func GetTerminal() *Terminal { termMu.RLock(); defer termMu.RUnlock(); return cur }

// NewTerminal 构造终端提示器。enabled=false 时总是 no-op。
func NewTerminal(w io.Writer, enabled bool) *Terminal {
	if w == nil {
		w = os.Stderr
	}
	t := &Terminal{w: w, enabled: enabled}
	// CI 环境视为非 TTY
	if os.Getenv("CI") == "" {
		if f, ok := w.(*os.File); ok {
			t.isTTY = term.IsTerminal(int(f.Fd()))
		}
	}
	return t
}

// RunStart: 记录输入与编码。
func (t *Terminal) RunStart(input, encoding string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	t.input = shortenBase(input, 48)
	t.encoding = encoding
	t.runStart = time.Now()
	t.println(fmt.Sprintf("[run] %s | encoding=%s", t.input, safe(encoding)))
}

// Progress: 已读行数与已写帧数（仅 TTY；≥100ms 节流）。
func (t *Terminal) Progress(lines, frames int64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || !t.isTTY {
		return
	}
	now := time.Now()
	if now.Sub(t.lastFlush) < 100*time.Millisecond {
		return
	}
	t.lastFlush = now
	t.printInline(fmt.Sprintf("[run] %s | 行 %d | 帧 %d | 用时 %s",
		t.input, lines, frames, formatSince(t.runStart)))
}

// RunFinish: 结束总览。
func (t *Terminal) RunFinish(ok bool, lines, frames int64, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	tag := "ok"
	if !ok {
		tag = "fail"
	}
	// 先清掉可能的进度行
	if t.isTTY && t.lastLen > 0 {
		t.printInline("")
		_, _ = io.WriteString(t.w, "\r")
	}
	t.println(fmt.Sprintf("[%s] %s | 行 %d | 帧 %d | 总用时 %s", tag, t.input, lines, frames, formatDur(dur)))
}

func (t *Terminal) println(s string) {
	if _, err := io.WriteString(t.w, s+"\n"); err != nil {
		// 写失败即禁用
		t.enabled = false
	}
	t.lastLen = 0
}

func (t *Terminal) printInline(s string) {
	// \r + 内容；新行比旧行短时补空格覆盖残留
	w := runewidth.StringWidth(s)
	var b strings.Builder
	b.WriteByte('\r')
	b.WriteString(s)
	if t.lastLen > w {
		b.WriteString(strings.Repeat(" ", t.lastLen-w))
	}
	if _, err := io.WriteString(t.w, b.String()); err != nil {
		t.enabled = false
		return
	}
	t.lastLen = w
}

// shortenBase: 取基名并按显示宽度截断（尾部省略号）。
func shortenBase(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return "stdin"
	}
	if max <= 0 {
		return ""
	}
	return runewidth.Truncate(safe(filepath.Base(s)), max, "…")
}

func safe(s string) string {
	// 避免换行等控制字符污染终端
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

func formatSince(t0 time.Time) string { return formatDur(time.Since(t0)) }

func formatDur(d time.Duration) string {
	if d < time.Second {
		ms := d.Milliseconds()
		if ms < 0 {
			ms = 0
		}
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(d.Milliseconds())/1000.0)
}
