package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix 为本程序识别的环境变量前缀。
const EnvPrefix = "CODE_MINIMAP_"

// DefaultFile 为工作目录下自动加载的配置文件名。
const DefaultFile = "code-minimap.json"

// Defaults 返回带有安全默认值的 Config 雏形。
// writer 不设默认：由 Assemble 按是否给出 output 在 stdout 与 fs 间选择。
func Defaults() Config {
	return Config{
		HorizontalScale: ptr(1.0),
		VerticalScale:   ptr(1.0),
		Columns:         "runes",
		Logging:         Logging{Level: "warn"},
		Components: Components{
			Reader:  "fs",
			Decoder: "utf8-lossy",
		},
	}
}

// LoadJSON 从文件路径或原始 JSON 解析 Config（严格拒绝未知字段）。
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Merge 按优先级合并（后者覆盖前者）。
// 仅标量/字符串/原样 JSON 为“替换”；不做深度合并。空串与 nil 不覆盖。
func Merge(base, over Config) Config {
	out := base
	if over.Input != "" {
		out.Input = over.Input
	}
	if over.Output != "" {
		out.Output = over.Output
	}
	if over.HorizontalScale != nil {
		out.HorizontalScale = ptr(*over.HorizontalScale)
	}
	if over.VerticalScale != nil {
		out.VerticalScale = ptr(*over.VerticalScale)
	}
	if over.Padding != nil {
		out.Padding = ptr(*over.Padding)
	}
	if over.StartLine != nil {
		out.StartLine = ptr(*over.StartLine)
	}
	if over.EndLine != nil {
		out.EndLine = ptr(*over.EndLine)
	}
	if s := strings.TrimSpace(over.Columns); s != "" {
		out.Columns = s
	}

	if s := strings.TrimSpace(over.Logging.Level); s != "" {
		out.Logging.Level = s
	}
	if s := strings.TrimSpace(over.Logging.Dir); s != "" {
		out.Logging.Dir = s
	}

	if over.Components.Reader != "" {
		out.Components.Reader = over.Components.Reader
	}
	if over.Components.Decoder != "" {
		out.Components.Decoder = over.Components.Decoder
	}
	if over.Components.Writer != "" {
		out.Components.Writer = over.Components.Writer
	}

	// Options（完整替换对应键）
	if len(over.Options.Reader) > 0 {
		out.Options.Reader = cloneRaw(over.Options.Reader)
	}
	if len(over.Options.Decoder) > 0 {
		out.Options.Decoder = cloneRaw(over.Options.Decoder)
	}
	if len(over.Options.Writer) > 0 {
		out.Options.Writer = cloneRaw(over.Options.Writer)
	}
	return out
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 前缀 CODE_MINIMAP_；集合外的键忽略；数值无法解析时报错。
// 支持：INPUT, OUTPUT, HORIZONTAL_SCALE, VERTICAL_SCALE, PADDING, START_LINE, END_LINE,
// ENCODING, COLUMNS, LOG_LEVEL, LOG_DIR, COMPONENTS_{READER,DECODER,WRITER}
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq <= len(EnvPrefix) {
			continue
		}
		key := kv[len(EnvPrefix):eq]
		val := strings.TrimSpace(kv[eq+1:])
		if val == "" {
			// 空值视为未设置（.env 模板中的占位）
			continue
		}
		var err error
		switch key {
		case "INPUT":
			over.Input = val
		case "OUTPUT":
			over.Output = val
		case "HORIZONTAL_SCALE":
			over.HorizontalScale, err = parseFloat(key, val)
		case "VERTICAL_SCALE":
			over.VerticalScale, err = parseFloat(key, val)
		case "PADDING":
			over.Padding, err = parseInt(key, val)
		case "START_LINE":
			over.StartLine, err = parseInt(key, val)
		case "END_LINE":
			over.EndLine, err = parseInt(key, val)
		case "ENCODING", "COMPONENTS_DECODER":
			over.Components.Decoder = val
		case "COLUMNS":
			over.Columns = val
		case "LOG_LEVEL":
			over.Logging.Level = val
		case "LOG_DIR":
			over.Logging.Dir = val
		case "COMPONENTS_READER":
			over.Components.Reader = val
		case "COMPONENTS_WRITER":
			over.Components.Writer = val
		}
		if err != nil {
			return Config{}, err
		}
	}
	return over, nil
}

func parseFloat(key, s string) (*float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("env %s%s: %w", EnvPrefix, key, err)
	}
	return &v, nil
}

func parseInt(key, s string) (*int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("env %s%s: %w", EnvPrefix, key, err)
	}
	return &v, nil
}

func cloneRaw(in json.RawMessage) json.RawMessage {
	if len(in) == 0 {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
