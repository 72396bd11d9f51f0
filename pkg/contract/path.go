package contract

import (
	"path"
	"strings"
)

// NormalizeFileID 将输入路径规范化为跨平台稳定的 FileID。
// 规则：
// - 空串与 "-" 映射为 StdinID；
// - 反斜杠统一为正斜杠，再做 path.Clean；
// - 保留相对/绝对语义，不做隐式绝对化。
func NormalizeFileID(p string) FileID {
	if p == "" || p == "-" {
		return StdinID
	}
	return FileID(path.Clean(strings.ReplaceAll(p, "\\", "/")))
}
