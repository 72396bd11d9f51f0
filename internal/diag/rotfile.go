package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// logPrefix 为日志文件名前缀。
const logPrefix = "code-minimap"

// RotatingFile 将日志行追加到 dir/code-minimap-current.txt，超过 maxBytes 时轮转：
// 当前文件改名为 code-minimap-<UTC 时间戳>.txt，再重新创建 current。
// 目录与文件在首次写入时才创建，未产生日志的运行不留痕迹。
type RotatingFile struct {
	dir      string
	maxBytes int64

	mu      sync.Mutex
	f       *os.File
	curSize int64
}

func NewRotatingFile(dir string, maxBytes int64) *RotatingFile {
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &RotatingFile{dir: dir, maxBytes: maxBytes}
}

// CurrentPath 返回当前日志文件路径。
func (w *RotatingFile) CurrentPath() string {
	return filepath.Join(w.dir, logPrefix+"-current.txt")
}

// WriteLine 写入一行（自动追加换行）。单行超过 maxBytes 时仍整行写入新文件。
func (w *RotatingFile) WriteLine(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.open(); err != nil {
		return err
	}
	need := int64(len(b) + 1)
	if w.curSize > 0 && w.curSize+need > w.maxBytes {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	line := make([]byte, 0, len(b)+1)
	line = append(append(line, b...), '\n')
	n, err := w.f.Write(line)
	w.curSize += int64(n)
	return err
}

func (w *RotatingFile) open() error {
	if w.f != nil {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.CurrentPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.f = f
	w.curSize = 0
	if st, err := f.Stat(); err == nil {
		w.curSize = st.Size()
	}
	return nil
}

func (w *RotatingFile) rotate() error {
	_ = w.f.Close()
	w.f = nil
	// 纳秒时间戳，避免同秒内多次轮转互相覆盖
	ts := time.Now().UTC().Format("20060102-150405.000000000")
	rotated := filepath.Join(w.dir, fmt.Sprintf("%s-%s.txt", logPrefix, ts))
	if err := os.Rename(w.CurrentPath(), rotated); err != nil {
		return fmt.Errorf("rename rotated file: %w", err)
	}
	return w.open()
}

// Close 关闭当前打开的文件句柄
func (w *RotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
