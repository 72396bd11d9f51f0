package contract

import (
	"context"
	"io"
)

// ArtifactID: 输出工件标识。stdout Writer 忽略它；fs Writer 将其解释为目标文件路径。
type ArtifactID = FileID

// Sink: 只追加的输出目标。
// Close 表示成功结束并提交（刷新缓冲、原子替换等）；失败路径不调用 Close，
// 而是在实现了 Aborter 时调用 Abort 丢弃未提交内容。
type Sink interface {
	io.Writer
	Close() error
}

// Aborter: 可选能力，放弃未提交的输出。
type Aborter interface {
	Abort() error
}

// Writer: 打开输出 Sink。
// 约束：
//  1. 同一 ArtifactID 单写者；
//  2. 流式写入，O(1) 额外内存（仅缓冲区）；
//  3. ctx 已取消时尽快返回；
//  4. 错误直接上抛（不做重试/回退）。
type Writer interface {
	Open(ctx context.Context, id ArtifactID) (Sink, error)
}
