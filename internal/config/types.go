package config

import (
	"encoding/json"
)

// Config: 运行期只读配置（一次解析，运行期不变）。
// JSON 使用 snake_case；未知字段在解析期失败。
// 数值字段为指针：nil 表示“未设置”，以便 Merge 区分未覆盖与显式 0。
type Config struct {
	// Input: 输入路径；空或 "-" 为 STDIN。
	Input string `json:"input"`
	// Output: 输出文件；空或 "-" 为 stdout。
	Output string `json:"output"`

	HorizontalScale *float64 `json:"horizontal_scale,omitempty"`
	VerticalScale   *float64 `json:"vertical_scale,omitempty"`
	Padding         *int     `json:"padding,omitempty"`
	StartLine       *int     `json:"start_line,omitempty"`
	EndLine         *int     `json:"end_line,omitempty"`
	// Columns: runes|cells
	Columns string `json:"columns,omitempty"`

	Logging Logging `json:"logging"`

	// 组件名选择（空则使用默认名）。decoder 名即编码：utf8|utf8-lossy。
	Components Components `json:"components"`

	// 各组件 Options 子树，原样 JSON 传入工厂。
	Options Options `json:"options"`
}

// Logging: 级别与可选日志目录（空则写 stderr）。
type Logging struct {
	Level string `json:"level"`
	Dir   string `json:"dir,omitempty"`
}

// Components: 组件名选择（注册表中的实现名）。
type Components struct {
	Reader  string `json:"reader"`
	Decoder string `json:"decoder"`
	Writer  string `json:"writer"`
}

// Options: 各组件的原样 JSON Options。
type Options struct {
	Reader  json.RawMessage `json:"reader,omitempty"`
	Decoder json.RawMessage `json:"decoder,omitempty"`
	Writer  json.RawMessage `json:"writer,omitempty"`
}

func ptr[T any](v T) *T { return &v }
