//go:build windows

package diag

import (
	"errors"

	"golang.org/x/sys/windows"
)

// 管道读端关闭时 Windows 返回 ERROR_BROKEN_PIPE 或 ERROR_NO_DATA。
func isBrokenPipeErrno(err error) bool {
	return errors.Is(err, windows.ERROR_BROKEN_PIPE) || errors.Is(err, windows.ERROR_NO_DATA)
}
