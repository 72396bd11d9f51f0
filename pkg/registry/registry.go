package registry

import (
	"bytes"
	"encoding/json"

	"codeminimap/pkg/contract"
	dlossy "codeminimap/plugins/decoder/lossy"
	dstrict "codeminimap/plugins/decoder/strict"
	rfs "codeminimap/plugins/reader/filesystem"
	wfs "codeminimap/plugins/writer/filesystem"
	wstd "codeminimap/plugins/writer/stdout"
)

// strictUnmarshal: 使用 DisallowUnknownFields 严格解码，拒绝未知字段。
func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		// 保持零值（默认选项）
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// NewReader 工厂签名：接收原样 JSON Options。
type NewReader func(raw json.RawMessage) (contract.Reader, error)

// NewDecoder 工厂签名：接收原样 JSON Options。
type NewDecoder func(raw json.RawMessage) (contract.Decoder, error)

// NewWriter 工厂签名：接收原样 JSON Options。
type NewWriter func(raw json.RawMessage) (contract.Writer, error)

// Reader 工厂注册表（显式、零反射）。
var Reader = map[string]NewReader{
	// fs: 文件系统/STDIN Reader
	"fs": func(raw json.RawMessage) (contract.Reader, error) {
		var opts rfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return rfs.New(&opts), nil
	},
}

// Decoder 工厂注册表。名称即 --encoding 取值。
var Decoder = map[string]NewDecoder{
	// utf8: 严格 UTF-8，非法序列报 ErrDecode
	"utf8": func(raw json.RawMessage) (contract.Decoder, error) {
		var opts dstrict.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return dstrict.New(&opts), nil
	},
	// utf8-lossy: 非法序列替换为 U+FFFD
	"utf8-lossy": func(raw json.RawMessage) (contract.Decoder, error) {
		var opts dlossy.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return dlossy.New(&opts), nil
	},
}

// Writer 工厂注册表。
var Writer = map[string]NewWriter{
	// stdout: 标准输出（默认）
	"stdout": func(raw json.RawMessage) (contract.Writer, error) {
		var opts wstd.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return wstd.New(&opts), nil
	},
	// fs: 文件系统 Writer（覆盖写/原子替换可配置）
	"fs": func(raw json.RawMessage) (contract.Writer, error) {
		var opts wfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return wfs.New(&opts), nil
	},
}
