package filesystem

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"codeminimap/pkg/contract"
)

// Options: 最小必要选项。
type Options struct {
	// Root: 可选输出根目录。非空时相对路径基于 Root 解析，且禁止越界；
	// 为空时按进程工作目录解析，路径原样使用。
	Root string `json:"root,omitempty"`
	// Atomic: 是否使用原子替换（同目录临时文件 + rename）。
	// 默认值：true。未提供该字段时采用原子写；显式 false 可关闭。
	Atomic *bool `json:"atomic,omitempty"`
	// PermFile/PermDir: 可选权限；为 0 表示使用实现/平台默认。
	PermFile os.FileMode `json:"perm_file,omitempty"`
	PermDir  os.FileMode `json:"perm_dir,omitempty"`
	// BufSize: 写缓冲区大小；<=0 使用实现默认。
	BufSize int `json:"buf_size,omitempty"`
}

type FS struct {
	root    string
	atomic  bool
	permF   os.FileMode
	permD   os.FileMode
	bufSize int
}

// New 创建文件系统 Writer 实现。
func New(opts *Options) *FS {
	if opts == nil {
		opts = &Options{}
	}
	bsz := opts.BufSize
	if bsz <= 0 {
		bsz = 64 * 1024
	}
	pf := opts.PermFile
	if pf == 0 {
		pf = 0o644
	}
	pd := opts.PermDir
	if pd == 0 {
		pd = 0o755
	}
	atomic := true
	if opts.Atomic != nil {
		atomic = *opts.Atomic
	}
	return &FS{root: strings.TrimSpace(opts.Root), atomic: atomic, permF: pf, permD: pd, bufSize: bsz}
}

var _ contract.Writer = (*FS)(nil)

// Open 打开 id 对应的目标文件。原子模式下内容先写入同目录临时文件，
// Close 时 fsync 并替换目标；Abort 删除临时文件，目标保持原样。
func (w *FS) Open(ctx context.Context, id contract.ArtifactID) (contract.Sink, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dest, err := w.mapPath(id)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		return nil, contract.ErrPathInvalid
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, w.permD); err != nil {
		return nil, err
	}

	s := &sink{ctx: ctx, dest: dest, atomic: w.atomic}
	if w.atomic {
		tmp, err := os.CreateTemp(dir, ".tmp-*")
		if err != nil {
			return nil, err
		}
		// 目标权限：尽量与期望一致
		_ = os.Chmod(tmp.Name(), w.permF)
		s.f, s.tmpPath = tmp, tmp.Name()
	} else {
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, w.permF)
		if err != nil {
			return nil, err
		}
		s.f = f
	}
	s.bw = bufio.NewWriterSize(s.f, w.bufSize)
	return s, nil
}

// mapPath: Clean + 可选的 Root 越界校验。
func (w *FS) mapPath(id contract.ArtifactID) (string, error) {
	raw := strings.TrimSpace(string(id))
	if raw == "" || id == contract.StdinID {
		return "", contract.ErrPathInvalid
	}
	rel := filepath.Clean(filepath.FromSlash(raw))
	if rel == "." || rel == ".." {
		return "", contract.ErrPathInvalid
	}
	if w.root == "" {
		return rel, nil
	}
	// 有根目录：禁止绝对路径、父级逃逸、Windows 卷名
	if filepath.IsAbs(rel) {
		return "", contract.ErrPathInvalid
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", contract.ErrPathInvalid
	}
	if vol := filepath.VolumeName(rel); vol != "" {
		return "", contract.ErrPathInvalid
	}
	return filepath.Join(w.root, rel), nil
}

var errSinkDone = errors.New("sink already committed or aborted")

type sink struct {
	ctx     context.Context
	f       *os.File
	bw      *bufio.Writer
	dest    string
	tmpPath string
	atomic  bool
	done    bool
}

func (s *sink) Write(p []byte) (int, error) {
	if s.done {
		return 0, errSinkDone
	}
	select {
	case <-s.ctx.Done():
		return 0, s.ctx.Err()
	default:
	}
	return s.bw.Write(p)
}

// Close 刷新并提交。
func (s *sink) Close() error {
	if s.done {
		return errSinkDone
	}
	s.done = true
	if err := s.bw.Flush(); err != nil {
		s.discard()
		return err
	}
	if !s.atomic {
		return s.f.Close()
	}
	if err := s.f.Sync(); err != nil {
		s.discard()
		return err
	}
	if err := s.f.Close(); err != nil {
		_ = os.Remove(s.tmpPath)
		return err
	}
	// 平台特定的原子替换（或最佳努力）：
	if err := osReplace(s.tmpPath, s.dest); err != nil {
		_ = os.Remove(s.tmpPath)
		return err
	}
	// 最佳努力：在部分平台同步父目录，提升崩溃安全性
	_ = syncDir(filepath.Dir(s.dest))
	return nil
}

// Abort 放弃输出。非原子模式下已写入的部分保留在目标文件中。
func (s *sink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	s.discard()
	return nil
}

func (s *sink) discard() {
	_ = s.f.Close()
	if s.atomic {
		_ = os.Remove(s.tmpPath)
	}
}
