//go:build !windows

package main

import (
	"os/signal"

	"golang.org/x/sys/unix"
)

// ignoreSigpipe: 忽略 SIGPIPE，使写往已关闭管道的 stdout 返回 EPIPE 而非直接终止进程，
// 由 pipeline 映射为 ErrSinkClosed 并按正常结束退出。
func ignoreSigpipe() { signal.Ignore(unix.SIGPIPE) }
