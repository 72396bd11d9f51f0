package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cfgpkg "codeminimap/internal/config"
	"codeminimap/internal/diag"
	"codeminimap/internal/pipeline"
	"codeminimap/pkg/contract"
)

var pipelineRun = pipeline.Run

// version 由构建时 -ldflags "-X main.version=..." 注入。
var version = "dev"

// 退出码
const (
	exitOK     = 0
	exitRun    = 1
	exitUsage  = 2
	exitConfig = 3
)

func main() {
	ignoreSigpipe()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliFlags: 命令行旗标。数值类旗标仅在显式给出时覆盖配置（Changed）。
type cliFlags struct {
	config   string
	hscale   float64
	vscale   float64
	padding  int
	start    int
	end      int
	encoding string
	columns  string
	output   string
	logLevel string
	logDir   string
	status   bool
}

// usageError: 命令行用法错误（退出码 2）。
type usageError struct{ error }

func run(args []string, stdout, stderr io.Writer) int {
	// 在任何 ENV 读取前，尝试加载工作目录下的 .env（不覆盖已有 ENV）。
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "code-minimap: 忽略无法解析的 .env: %v\n", err)
	}
	code := exitOK
	root := newRootCmd(stdout, stderr, &code)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "code-minimap: %v\n", err)
		fmt.Fprintln(stderr, "Run 'code-minimap --help' for usage.")
		return exitUsage
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	var f cliFlags
	root := &cobra.Command{
		Use:   "code-minimap [FILE]",
		Short: "Generate a Braille minimap of a text file",
		Long: "code-minimap renders a compact overview of source code using Unicode Braille\n" +
			"patterns: every glyph covers 2 columns × 4 lines. FILE defaults to standard input.\n\n" +
			"A FILE named like a subcommand (completion, init-config, help) must be written\n" +
			"as ./completion or passed after --, e.g. code-minimap -- completion.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkEnums(cmd, f); err != nil {
				return err
			}
			*code = execute(cmd, args, f, stderr)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	fl := root.Flags()
	fl.StringVar(&f.config, "config", "", "配置文件路径（JSON）；缺省读取 ./"+cfgpkg.DefaultFile+"（若存在）")
	fl.Float64VarP(&f.hscale, "horizontal-scale", "H", 1.0, "水平缩放因子（>= 0）")
	fl.Float64VarP(&f.vscale, "vertical-scale", "V", 1.0, "垂直缩放因子（>= 0）")
	fl.IntVar(&f.padding, "padding", 0, "以空格右补齐每行到指定宽度；0 表示不补齐")
	fl.IntVar(&f.start, "start-line", 0, "起始行（1 基，含）")
	fl.IntVar(&f.end, "end-line", 0, "结束行（1 基，含）；0 表示到文件末尾")
	fl.StringVar(&f.encoding, "encoding", "utf8-lossy", "输入编码：utf8-lossy|utf8（大小写不敏感）")
	fl.StringVar(&f.columns, "columns", "runes", "列宽计数：runes（按字符）|cells（按终端显示宽度）")
	fl.StringVarP(&f.output, "output", "o", "", "输出文件（原子替换）；缺省或 \"-\" 为标准输出")
	fl.StringVar(&f.logLevel, "log-level", "", "日志级别：debug|info|warn|error（默认 warn）")
	fl.StringVar(&f.logDir, "log-dir", "", "日志目录；缺省写 stderr")
	fl.BoolVar(&f.status, "status", false, "在 stderr 显示运行状态（TTY 动态刷新）")

	_ = root.RegisterFlagCompletionFunc("encoding", fixedCompletion("utf8-lossy", "utf8"))
	_ = root.RegisterFlagCompletionFunc("columns", fixedCompletion("runes", "cells"))
	_ = root.RegisterFlagCompletionFunc("log-level", fixedCompletion("debug", "info", "warn", "error"))

	root.AddCommand(newInitConfigCmd(stderr, code))
	return root
}

func fixedCompletion(vals ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return vals, cobra.ShellCompDirectiveNoFileComp
	}
}

// checkEnums: 枚举型旗标的取值属于用法层面，错误按用法错误处理。
func checkEnums(cmd *cobra.Command, f cliFlags) error {
	fl := cmd.Flags()
	if fl.Changed("encoding") {
		switch strings.ToLower(strings.TrimSpace(f.encoding)) {
		case "utf8", "utf8-lossy":
		default:
			return usageError{fmt.Errorf("invalid value %q for --encoding (utf8-lossy|utf8)", f.encoding)}
		}
	}
	if fl.Changed("columns") {
		switch strings.ToLower(strings.TrimSpace(f.columns)) {
		case "runes", "cells":
		default:
			return usageError{fmt.Errorf("invalid value %q for --columns (runes|cells)", f.columns)}
		}
	}
	return nil
}

// execute: 解析配置 → 装配 → 运行，返回退出码。
func execute(cmd *cobra.Command, args []string, f cliFlags, stderr io.Writer) int {
	start := time.Now()
	corrID := uuid.NewString()
	// 先以 ENV/默认级别占位，配置合并后重建
	logger := diag.NewLogger(corrID, os.Getenv(cfgpkg.EnvPrefix+"LOG_LEVEL"), "")

	cfg, err := loadConfig(cmd, args, f)
	if err != nil {
		fmt.Fprintf(stderr, "code-minimap: %v\n", err)
		logger.ErrorWith("config", string(diag.Classify(err)), err.Error(), &start, "")
		return exitConfig
	}
	comp, set, err := cfgpkg.Assemble(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "code-minimap: %v\n", err)
		logger.ErrorWith("config", string(diag.Classify(err)), err.Error(), &start, "")
		return exitConfig
	}

	// 使用最终配置中的日志级别与目录重建 logger
	logger = diag.NewLogger(corrID, cfg.Logging.Level, cfg.Logging.Dir)
	defer logger.Close()
	logger.Debugf("config", "effective input=%q output=%q writer=%s encoding=%s hscale=%g vscale=%g padding=%d range=%d..%d columns=%s",
		set.Input, set.Output, cfgpkg.WriterName(cfg), set.Encoding, set.Render.HScale, set.Render.VScale,
		set.Render.Padding, set.Render.StartLine, set.Render.EndLine, set.Render.Columns)

	// 终端信息提示（非日志）：按 CLI 启用
	diag.SetTerminal(diag.NewTerminal(stderr, f.status))
	defer diag.SetTerminal(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	t := logger.Start("pipeline", "run")
	err = pipelineRun(ctx, comp, set, logger)
	switch {
	case err == nil:
	case errors.Is(err, contract.ErrSinkClosed):
		// 下游提前退出（如 | head）：正常结束
		logger.Debugf("pipeline", "sink closed: %v", err)
	default:
		// 各阶段已记录 error 事件，此处汇总只记 debug
		code := diag.Classify(err)
		logger.Debugf("pipeline", "run failed code=%s dur_ms=%d: %v", code, time.Since(start).Milliseconds(), err)
		diag.IncOp("pipeline", "error", "error")
		if code != diag.CodeUnknown {
			diag.IncError("pipeline", string(code))
		}
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, "code-minimap: interrupted")
		} else {
			fmt.Fprintf(stderr, "code-minimap: %v\n", err)
		}
		return exitRun
	}
	t.Finish("run", 0)
	diag.IncOp("pipeline", "finish", "success")
	return exitOK
}

// loadConfig 按 CLI > ENV > JSON > 默认 合并配置并校验。
func loadConfig(cmd *cobra.Command, args []string, f cliFlags) (cfgpkg.Config, error) {
	cfg := cfgpkg.Defaults()

	// JSON 配置（文件或 ENV: CODE_MINIMAP_CONFIG_JSON）
	path := f.config
	if path == "" {
		path = os.Getenv(cfgpkg.EnvPrefix + "CONFIG_FILE")
	}
	if path == "" {
		if _, err := os.Stat(cfgpkg.DefaultFile); err == nil {
			path = cfgpkg.DefaultFile
		}
	}
	raw := []byte(os.Getenv(cfgpkg.EnvPrefix + "CONFIG_JSON"))
	if path != "" || len(raw) > 0 {
		base, err := cfgpkg.LoadJSON(path, raw)
		if err != nil {
			return cfg, err
		}
		cfg = cfgpkg.Merge(cfg, base)
	}

	over, err := cfgpkg.EnvOverlay(os.Environ())
	if err != nil {
		return cfg, err
	}
	cfg = cfgpkg.Merge(cfg, over)

	cfg = cfgpkg.Merge(cfg, cliOverlay(cmd, args, f))
	return cfg, cfgpkg.Validate(cfg)
}

// cliOverlay: 只收集显式给出的旗标，未给出的不覆盖低优先级来源。
func cliOverlay(cmd *cobra.Command, args []string, f cliFlags) cfgpkg.Config {
	var over cfgpkg.Config
	fl := cmd.Flags()
	if len(args) > 0 {
		over.Input = args[0]
	}
	if fl.Changed("horizontal-scale") {
		over.HorizontalScale = &f.hscale
	}
	if fl.Changed("vertical-scale") {
		over.VerticalScale = &f.vscale
	}
	if fl.Changed("padding") {
		over.Padding = &f.padding
	}
	if fl.Changed("start-line") {
		over.StartLine = &f.start
	}
	if fl.Changed("end-line") {
		over.EndLine = &f.end
	}
	if fl.Changed("encoding") {
		over.Components.Decoder = f.encoding
	}
	if fl.Changed("columns") {
		over.Columns = f.columns
	}
	if fl.Changed("output") {
		over.Output = f.output
	}
	over.Logging.Level = f.logLevel
	over.Logging.Dir = f.logDir
	return over
}

func newInitConfigCmd(stderr io.Writer, code *int) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [DIR]",
		Short: "Write a default " + cfgpkg.DefaultFile + " and .env template (never overwrites)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				dir = strings.TrimSpace(args[0])
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintf(stderr, "code-minimap: 生成默认配置失败: %v\n", err)
				*code = exitConfig
				return nil
			}
			if err := writeConfig(filepath.Join(dir, cfgpkg.DefaultFile), cfgpkg.DefaultTemplateConfig()); err != nil {
				fmt.Fprintf(stderr, "code-minimap: 生成默认配置失败: %v\n", err)
				*code = exitConfig
				return nil
			}
			// 生成 .env 模板（不覆盖已存在文件）。
			if err := writeDotEnv(filepath.Join(dir, ".env")); err != nil {
				fmt.Fprintf(stderr, "code-minimap: 提示：.env 生成失败（已跳过）：%v\n", err)
			}
			return nil
		},
	}
}

func writeConfig(path string, c cfgpkg.Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	// 不覆盖已存在文件
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(b, '\n'))
	return err
}

// writeDotEnv 生成 .env 模板（若文件已存在则跳过）。
func writeDotEnv(path string) error {
	var b strings.Builder
	b.WriteString("# code-minimap .env 模板（由 init-config 生成）\n")
	b.WriteString("# 优先级：CLI > ENV(.env) > JSON；空值表示未设置。\n\n")
	b.WriteString("# 配置来源（可二选一）\n")
	for _, k := range []string{"CONFIG_FILE", "CONFIG_JSON"} {
		b.WriteString(cfgpkg.EnvPrefix + k + "=\n")
	}
	b.WriteString("\n# 渲染参数\n")
	for _, k := range []string{"INPUT", "OUTPUT", "HORIZONTAL_SCALE", "VERTICAL_SCALE", "PADDING", "START_LINE", "END_LINE", "ENCODING", "COLUMNS"} {
		b.WriteString(cfgpkg.EnvPrefix + k + "=\n")
	}
	b.WriteString("\n# 日志与组件\n")
	for _, k := range []string{"LOG_LEVEL", "LOG_DIR", "COMPONENTS_READER", "COMPONENTS_WRITER"} {
		b.WriteString(cfgpkg.EnvPrefix + k + "=\n")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	_, err = f.WriteString(b.String())
	return err
}
