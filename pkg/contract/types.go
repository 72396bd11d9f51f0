package contract

// FileID: 输入源的逻辑标识（文件路径规范化后的形式；标准输入为 "stdin"）。
// 仅用于日志与诊断，核心渲染不读取它。
type FileID string

// StdinID: 标准输入的固定 FileID。
const StdinID FileID = "stdin"
