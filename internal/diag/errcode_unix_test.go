//go:build !windows

package diag

import (
	"fmt"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestBrokenPipeUnix(t *testing.T) {
	err := &os.PathError{Op: "write", Path: "/dev/stdout", Err: unix.EPIPE}
	if !IsBrokenPipe(err) || Classify(err) != CodeSinkClosed {
		t.Fatalf("EPIPE 应判定为管道关闭")
	}
	if !IsBrokenPipe(fmt.Errorf("flush: %w", unix.ECONNRESET)) {
		t.Fatalf("ECONNRESET")
	}
	if IsBrokenPipe(unix.ENOENT) {
		t.Fatalf("ENOENT 不是管道关闭")
	}
}
