package config

import "encoding/json"

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 输入为 STDIN、输出为 stdout，渲染参数 1:1；
// - 组件名采用仓库内置实现；
// - 选项给出全部键与中性默认值，便于按需修改。
func DefaultTemplateConfig() Config {
	d := Defaults()
	cfg := Config{
		Input:           "-",
		Output:          "-",
		HorizontalScale: d.HorizontalScale,
		VerticalScale:   d.VerticalScale,
		Padding:         ptr(0),
		StartLine:       ptr(0),
		EndLine:         ptr(0),
		Columns:         d.Columns,
		Logging:         Logging{Level: "warn"},
		Components: Components{
			Reader:  d.Components.Reader,
			Decoder: d.Components.Decoder,
			// 留空：给出 output 时自动选 fs，否则 stdout
			Writer: "",
		},
	}
	cfg.Options.Reader = json.RawMessage(`{
  "buf_size": 65536
}`)
	cfg.Options.Decoder = json.RawMessage(`{
  "buf_size": 65536,
  "strip_bom": false,
  "max_line_bytes": 0
}`)
	// stdout 与 fs 均识别 buf_size；fs 另有 root/atomic/perm_file/perm_dir
	cfg.Options.Writer = json.RawMessage(`{
  "buf_size": 65536
}`)
	return cfg
}
