package config

import (
	"fmt"
	"strings"

	"codeminimap/internal/diag"
	"codeminimap/internal/minimap"
	"codeminimap/internal/pipeline"
	"codeminimap/pkg/contract"
	"codeminimap/pkg/registry"
)

// Validate 对最小必要边界做静态校验。
func Validate(cfg Config) error {
	if _, err := renderOptions(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !diag.ValidLevel(cfg.Logging.Level) {
		return fmt.Errorf("config: log level %q invalid (debug|info|warn|error)", cfg.Logging.Level)
	}
	d := Defaults()
	if name := effName(cfg.Components.Reader, d.Components.Reader); registry.Reader[name] == nil {
		return fmt.Errorf("config: reader %q not registered", name)
	}
	if name := DecoderName(cfg); registry.Decoder[name] == nil {
		return fmt.Errorf("config: encoding %q not supported (utf8|utf8-lossy)", name)
	}
	if name := WriterName(cfg); registry.Writer[name] == nil {
		return fmt.Errorf("config: writer %q not registered", name)
	}
	if WriterName(cfg) == "fs" && isStdio(cfg.Output) {
		return fmt.Errorf("config: writer fs requires output path")
	}
	return nil
}

// DecoderName 返回生效的解码器名（大小写不敏感）。
func DecoderName(cfg Config) string {
	return strings.ToLower(strings.TrimSpace(effName(cfg.Components.Decoder, Defaults().Components.Decoder)))
}

// WriterName 返回生效的 writer 名：显式配置优先；否则有 output 用 fs，无则 stdout。
func WriterName(cfg Config) string {
	if w := strings.TrimSpace(cfg.Components.Writer); w != "" {
		return w
	}
	if isStdio(cfg.Output) {
		return "stdout"
	}
	return "fs"
}

// Assemble 构造 Components 与 Settings。
// 严格 Options 解析在 registry （工厂）层进行；此处只传 raw JSON。
func Assemble(cfg Config) (pipeline.Components, pipeline.Settings, error) {
	if err := Validate(cfg); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}
	d := Defaults()
	r, err := registry.Reader[effName(cfg.Components.Reader, d.Components.Reader)](cfg.Options.Reader)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.reader: %w", err)
	}
	dn := DecoderName(cfg)
	dec, err := registry.Decoder[dn](cfg.Options.Decoder)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.decoder: %w", err)
	}
	w, err := registry.Writer[WriterName(cfg)](cfg.Options.Writer)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.writer: %w", err)
	}
	ro, _ := renderOptions(cfg)
	set := pipeline.Settings{
		Input:    strings.TrimSpace(cfg.Input),
		Encoding: dn,
		Render:   ro,
	}
	if !isStdio(cfg.Output) {
		set.Output = contract.ArtifactID(strings.TrimSpace(cfg.Output))
	}
	return pipeline.Components{Reader: r, Decoder: dec, Writer: w}, set, nil
}

// renderOptions 将配置映射为渲染参数并校验。
func renderOptions(cfg Config) (minimap.Options, error) {
	o := minimap.DefaultOptions()
	if cfg.HorizontalScale != nil {
		o.HScale = *cfg.HorizontalScale
	}
	if cfg.VerticalScale != nil {
		o.VScale = *cfg.VerticalScale
	}
	if cfg.Padding != nil {
		o.Padding = *cfg.Padding
	}
	if cfg.StartLine != nil {
		o.StartLine = *cfg.StartLine
	}
	if cfg.EndLine != nil {
		o.EndLine = *cfg.EndLine
	}
	if c := strings.TrimSpace(cfg.Columns); c != "" {
		o.Columns = minimap.Columns(strings.ToLower(c))
	}
	return o, o.Validate()
}

func isStdio(p string) bool {
	p = strings.TrimSpace(p)
	return p == "" || p == "-"
}

func effName(got, def string) string {
	if strings.TrimSpace(got) == "" {
		return def
	}
	return strings.TrimSpace(got)
}
