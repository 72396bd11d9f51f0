package filesystem

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeminimap/pkg/contract"
)

// TestOpenSingleFile 读取单文件
func TestOpenSingleFile(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "a.go")
	os.WriteFile(fp, []byte("package a\n"), 0o644)
	r := New(nil)
	id, rc, err := r.Open(context.Background(), fp)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "package a\n" {
		t.Fatalf("content %q", b)
	}
	if id != contract.NormalizeFileID(fp) {
		t.Fatalf("file id mismatch %s", id)
	}
}

// TestOpenStdin "-" 与空串读取 STDIN
func TestOpenStdin(t *testing.T) {
	for _, p := range []string{"-", ""} {
		r := New(&Options{BufSize: 16})
		r.stdin = strings.NewReader("from stdin")
		id, rc, err := r.Open(context.Background(), p)
		if err != nil {
			t.Fatalf("open %q: %v", p, err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		if id != contract.StdinID || string(b) != "from stdin" {
			t.Fatalf("stdin: %s %q", id, b)
		}
	}
}

// TestOpenMissing 不存在的文件
func TestOpenMissing(t *testing.T) {
	_, _, err := New(nil).Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, contract.ErrSourceUnavailable) {
		t.Fatalf("expect ErrSourceUnavailable, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("底层错误应保留: %v", err)
	}
}

// TestOpenDir 目录不是合法输入
func TestOpenDir(t *testing.T) {
	_, _, err := New(nil).Open(context.Background(), t.TempDir())
	if !errors.Is(err, contract.ErrSourceUnavailable) {
		t.Fatalf("expect ErrSourceUnavailable, got %v", err)
	}
}

// TestOpenCanceled ctx 取消
func TestOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := New(nil).Open(ctx, "-"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expect canceled, got %v", err)
	}
}
