//go:build windows

package main

// Windows 没有 SIGPIPE；管道关闭以 ERROR_BROKEN_PIPE/ERROR_NO_DATA 写错误体现。
func ignoreSigpipe() {}
