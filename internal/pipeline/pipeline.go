package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"codeminimap/internal/diag"
	"codeminimap/internal/minimap"
	"codeminimap/pkg/contract"
)

// - 单协程、拉模式：Reader → Decoder(LineSource) → minimap.Render → Writer(Sink)。
// - 内存与输入长度无关：任意时刻只持有一帧（4 行边界）与读写缓冲。
// - 首错即停：任一阶段出错立即返回；文件输出经 Abort 丢弃，目标保持原样。
// - 输出端被关闭（EPIPE 等）统一映射为 contract.ErrSinkClosed，由上层按正常结束处理。

// Components 聚合运行所需的原子组件。
type Components struct {
	Reader  contract.Reader
	Decoder contract.Decoder
	Writer  contract.Writer
}

// Settings 运行期配置（最小必要）。
type Settings struct {
	// Input 为输入路径；空串或 "-" 表示 STDIN。
	Input string
	// Output 为输出标识；stdout Writer 忽略，fs Writer 视为目标路径。
	Output contract.ArtifactID
	// Encoding 仅用于日志与状态展示（解码策略已由 Decoder 决定）。
	Encoding string
	Render   minimap.Options
}

// Run 执行完整流水线并返回首个错误。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Logger) error {
	_, err := RunStats(ctx, comp, set, logger)
	return err
}

// RunStats 同 Run，额外返回渲染计数（出错时为已完成部分）。
func RunStats(ctx context.Context, comp Components, set Settings, logger *diag.Logger) (minimap.Stats, error) {
	var st minimap.Stats
	if err := sanity(comp, set); err != nil {
		return st, fmt.Errorf("sanity: %w", err)
	}
	runStart := time.Now()
	term := diag.GetTerminal()
	term.RunStart(set.Input, set.Encoding)
	ok := false
	defer func() { term.RunFinish(ok, st.Lines, st.Frames, time.Since(runStart)) }()

	// 打开输入
	rt := logger.StartWith("reader", "open", set.Input, nil)
	fileID, rc, err := comp.Reader.Open(ctx, set.Input)
	if err != nil {
		fail(logger, "reader", "open failed", rt, set.Input, err)
		return st, fmt.Errorf("reader open: %w", err)
	}
	defer rc.Close()
	rt.Finish("open", 0)
	diag.IncOp("reader", "finish", "success")

	// 打开输出；输入不可用时不应创建或截断输出，因此放在 Reader 之后
	wt := logger.StartWith("writer", "open", string(set.Output), nil)
	sink, err := comp.Writer.Open(ctx, set.Output)
	if err != nil {
		fail(logger, "writer", "open failed", wt, string(set.Output), err)
		return st, fmt.Errorf("writer open: %w", err)
	}
	wt.Finish("open", 0)

	m := &meter{term: term}
	src := &countingSource{src: comp.Decoder.Lines(rc), m: m}
	out := &countingSink{w: sink, m: m}

	mt := logger.StartWith("minimap", "render", string(fileID), renderKV(set))
	st, err = minimap.Render(ctx, src, out, set.Render)
	if err != nil {
		abort(logger, sink)
		// Render 遇错即返回，首个记录到错误的一端即来源
		stage, what := "minimap", "render failed"
		switch {
		case out.err != nil:
			stage, what = "writer", "write failed"
			err = sinkErr(err)
		case src.err != nil:
			stage, what = "decoder", "decode failed"
		}
		fail(logger, stage, what, mt, string(fileID), err)
		return st, fmt.Errorf("%s: %w", stage, err)
	}
	mt.Finish("render", st.Frames)
	diag.IncOp("minimap", "finish", "success")

	ct := logger.StartWith("writer", "commit", string(set.Output), nil)
	if err := sink.Close(); err != nil {
		err = sinkErr(err)
		fail(logger, "writer", "commit failed", ct, string(set.Output), err)
		return st, fmt.Errorf("writer commit: %w", err)
	}
	ct.Finish("commit", st.Frames)
	diag.IncOp("writer", "finish", "success")
	ok = true
	return st, nil
}

// sinkErr 将输出端关闭类错误统一为 ErrSinkClosed（保留原始错误链）。
func sinkErr(err error) error {
	if errors.Is(err, contract.ErrSinkClosed) || !diag.IsBrokenPipe(err) {
		return err
	}
	return fmt.Errorf("%w: %w", contract.ErrSinkClosed, err)
}

// fail 记录错误事件并累加指标。输出端关闭属正常结束，只记 info 级 finish。
func fail(logger *diag.Logger, comp, msg string, t *diag.Timer, fileID string, err error) {
	code := diag.Classify(err)
	if code == diag.CodeSinkClosed {
		t.Finish("sink closed", 0)
		diag.IncOp(comp, "finish", "sink_closed")
		return
	}
	logger.ErrorWith(comp, string(code), msg+": "+err.Error(), t.Since(), fileID)
	diag.IncOp(comp, "error", "error")
	if code != diag.CodeUnknown {
		diag.IncError(comp, string(code))
	}
}

func abort(logger *diag.Logger, s contract.Sink) {
	a, ok := s.(contract.Aborter)
	if !ok {
		return
	}
	if err := a.Abort(); err != nil && !diag.IsBrokenPipe(err) {
		logger.Warn("writer", "abort failed: "+err.Error(), nil)
	}
}

func renderKV(set Settings) map[string]string {
	o := set.Render
	return map[string]string{
		"hscale":   strconv.FormatFloat(o.HScale, 'g', -1, 64),
		"vscale":   strconv.FormatFloat(o.VScale, 'g', -1, 64),
		"padding":  strconv.Itoa(o.Padding),
		"range":    strconv.Itoa(o.StartLine) + ".." + strconv.Itoa(o.EndLine),
		"columns":  string(o.Columns),
		"encoding": set.Encoding,
	}
}

func sanity(c Components, s Settings) error {
	if c.Reader == nil || c.Decoder == nil || c.Writer == nil {
		return errors.New("pipeline: missing components")
	}
	return s.Render.Validate()
}

// meter 汇总行/帧计数并推送到状态终端。
type meter struct {
	term   *diag.Terminal
	lines  int64
	frames int64
}

// countingSource 记录上游行数与首个错误（用于区分解码失败与渲染失败）。
type countingSource struct {
	src contract.LineSource
	m   *meter
	err error
}

func (c *countingSource) Next() (string, error) {
	s, err := c.src.Next()
	if err == nil {
		c.m.lines++
		return s, nil
	}
	if !errors.Is(err, io.EOF) {
		c.err = err
	}
	return s, err
}

// countingSink 每次写入对应一帧（Render 每帧写一次）。
type countingSink struct {
	w   io.Writer
	m   *meter
	err error
}

func (c *countingSink) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if err != nil {
		c.err = err
		return n, err
	}
	c.m.frames++
	c.m.term.Progress(c.m.lines, c.m.frames)
	return n, nil
}
