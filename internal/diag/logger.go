package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// 级别定义
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "warn"
	}
}

// Logger 为最小结构化日志器：单行 JSON；默认写 stderr，配置目录时写轮转文件。
type Logger struct {
	corrID string
	level  Level
	sink   *RotatingFile
	out    io.Writer
	mu     sync.Mutex
}

// NewLogger 通过配置的 level 初始化。dir 非空时日志写入 dir 下 10MiB 轮转文件，
// 否则写 stderr。
func NewLogger(corrID, level, dir string) *Logger {
	l := &Logger{corrID: corrID, level: ParseLevel(level), out: os.Stderr}
	if d := strings.TrimSpace(dir); d != "" {
		l.sink = NewRotatingFile(d, 10*1024*1024)
	}
	return l
}

// NewLoggerTo 将日志写到给定 Writer（测试与嵌入使用）。
func NewLoggerTo(w io.Writer, corrID, level string) *Logger {
	return &Logger{corrID: corrID, level: ParseLevel(level), out: w}
}

// ParseLevel 解析级别；空串与未知值回落到 warn，正常运行保持 stderr 安静。
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info":
		return Info
	case "error":
		return Error
	default:
		return Warn
	}
}

// ValidLevel 报告 s 是否为合法级别名（空串视为合法，取默认）。
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug", "info", "warn", "error":
		return true
	}
	return false
}

// Close 关闭轮转文件（若有）。
func (l *Logger) Close() error {
	if l == nil || l.sink == nil {
		return nil
	}
	return l.sink.Close()
}

// Event 为标准事件结构。
type Event struct {
	Level  string            `json:"level"`
	TS     string            `json:"ts"`
	CorrID string            `json:"corr_id"`
	Comp   string            `json:"comp"`
	Stage  string            `json:"stage"` // start|finish|error|warn
	Code   string            `json:"code,omitempty"`
	DurMS  int64             `json:"dur_ms,omitempty"`
	Count  int64             `json:"count,omitempty"`
	FileID string            `json:"file_id,omitempty"`
	Msg    string            `json:"msg"`
	KV     map[string]string `json:"kv,omitempty"`
}

func (l *Logger) log(lv Level, ev Event) {
	if l == nil || lv < l.level {
		return
	}
	ev.Level = lv.String()
	ev.TS = NowUTC()
	ev.CorrID = l.corrID
	b, _ := json.Marshal(ev)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sink == nil {
		_, _ = l.out.Write(append(b, '\n'))
		return
	}
	if err := l.sink.WriteLine(b); err != nil {
		// 后备：写 stderr
		fmt.Fprintf(os.Stderr, "logger sink error: %v\n", err)
		_, _ = os.Stderr.Write(append(b, '\n'))
	}
}

// Start 记录 start 事件；返回计时器用于 Finish。
func (l *Logger) Start(comp, msg string) *Timer {
	l.log(Info, Event{Comp: comp, Stage: "start", Msg: msg})
	return &Timer{l: l, comp: comp, t0: time.Now()}
}

// StartWith 记录带 file_id 与键值的 start。
func (l *Logger) StartWith(comp, msg, fileID string, kv map[string]string) *Timer {
	l.log(Info, Event{Comp: comp, Stage: "start", FileID: fileID, Msg: msg, KV: kv})
	return &Timer{l: l, comp: comp, fileID: fileID, t0: time.Now()}
}

// ErrorWith 记录 error 事件。
func (l *Logger) ErrorWith(comp, code, msg string, durSince *time.Time, fileID string) {
	var dur int64
	if durSince != nil {
		dur = time.Since(*durSince).Milliseconds()
	}
	l.log(Error, Event{Comp: comp, Stage: "error", Code: code, DurMS: dur, Msg: msg, FileID: fileID})
}

// Warn 记录 warn 事件。
func (l *Logger) Warn(comp, msg string, kv map[string]string) {
	l.log(Warn, Event{Comp: comp, Stage: "warn", Msg: msg, KV: kv})
}

// Debugf 输出调试事件（仅在 level=debug 时生效）。
func (l *Logger) Debugf(comp, format string, args ...any) {
	if l == nil || l.level > Debug {
		return
	}
	l.log(Debug, Event{Comp: comp, Stage: "debug", Msg: fmt.Sprintf(format, args...)})
}

// Timer 用于 start→finish 计时。
type Timer struct {
	l      *Logger
	comp   string
	fileID string
	t0     time.Time
}

// Since 返回起点，供 ErrorWith 计算耗时。
func (t *Timer) Since() *time.Time {
	if t == nil {
		return nil
	}
	return &t.t0
}

// Finish 记录 finish；可选 count。同时累加指标。
func (t *Timer) Finish(msg string, count int64) {
	if t == nil || t.l == nil {
		return
	}
	d := time.Since(t.t0)
	ObserveDuration(t.comp, "finish", d.Milliseconds())
	t.l.log(Info, Event{Comp: t.comp, Stage: "finish", DurMS: d.Milliseconds(), Count: count, FileID: t.fileID, Msg: msg})
}
