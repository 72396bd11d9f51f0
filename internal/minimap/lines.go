package minimap

import (
	"io"
	"strings"

	"codeminimap/pkg/contract"
)

// LimitLines 将 src 限制在 1 基闭区间 [start, end] 内。
// start < 1 视为 1；end == 0 表示不设上界；end < start 产出空流（不是错误）。
// 被跳过的行依然会被读取，读取错误照常上抛。
func LimitLines(src contract.LineSource, start, end int) contract.LineSource {
	if start < 1 {
		start = 1
	}
	if start == 1 && end == 0 {
		return src
	}
	r := &rangeLines{src: src, skip: start - 1, take: -1}
	if end > 0 {
		r.take = 0
		if end >= start {
			r.take = end - start + 1
		}
	}
	return r
}

type rangeLines struct {
	src  contract.LineSource
	skip int
	// take < 0 表示不限
	take int
}

func (r *rangeLines) Next() (string, error) {
	if r.take == 0 {
		return "", io.EOF
	}
	for r.skip > 0 {
		if _, err := r.src.Next(); err != nil {
			return "", err
		}
		r.skip--
	}
	line, err := r.src.Next()
	if err != nil {
		return "", err
	}
	if r.take > 0 {
		r.take--
	}
	return line, nil
}

// StringLines 以 "\n" 切分内存文本，行尾 "\r" 去除；末尾换行不产生额外空行。
func StringLines(s string) contract.LineSource { return &stringLines{rest: s} }

type stringLines struct {
	rest string
	done bool
}

func (s *stringLines) Next() (string, error) {
	if s.done || s.rest == "" {
		s.done = true
		return "", io.EOF
	}
	line := s.rest
	if i := strings.IndexByte(s.rest, '\n'); i >= 0 {
		line, s.rest = s.rest[:i], s.rest[i+1:]
	} else {
		s.rest = ""
	}
	return strings.TrimSuffix(line, "\r"), nil
}
