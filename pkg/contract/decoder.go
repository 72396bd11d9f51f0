package contract

import "io"

// LineSource: 已解码文本行的顺序拉取源。
// 约束：
//  1. Next 返回的行不含行尾（"\n" 与可选的 "\r"）；
//  2. 流结束时返回 ("", io.EOF)，此后持续返回 io.EOF；
//  3. 解码失败返回包裹 ErrDecode 的错误，I/O 故障原样上抛；
//  4. 单协程使用，无内部并发。
type LineSource interface {
	Next() (string, error)
}

// Decoder: 将字节流包装为 LineSource（严格/宽松 UTF-8 等解码策略）。
// 策略在启动时选定一次，而非逐行分支。
type Decoder interface {
	Lines(r io.Reader) LineSource
}
