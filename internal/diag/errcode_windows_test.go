//go:build windows

package diag

import (
	"os"
	"testing"

	"golang.org/x/sys/windows"
)

func TestBrokenPipeWindows(t *testing.T) {
	for _, e := range []error{windows.ERROR_BROKEN_PIPE, windows.ERROR_NO_DATA} {
		err := &os.PathError{Op: "write", Path: "stdout", Err: e}
		if !IsBrokenPipe(err) || Classify(err) != CodeSinkClosed {
			t.Fatalf("%v 应判定为管道关闭", e)
		}
	}
}
