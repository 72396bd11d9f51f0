package registry

import (
	"encoding/json"
	"sort"
	"testing"
)

// TestStrictUnmarshal 验证严格解码逻辑。
func TestStrictUnmarshal(t *testing.T) {
	type opt struct {
		A int `json:"a"`
	}
	var o opt
	if err := strictUnmarshal(nil, &o); err != nil || o.A != 0 {
		t.Fatalf("nil 输入失败: %v", err)
	}
	if err := strictUnmarshal(json.RawMessage(`{"a":1}`), &o); err != nil || o.A != 1 {
		t.Fatalf("合法 JSON 解析失败: %v", err)
	}
	if err := strictUnmarshal(json.RawMessage(`{"a":1,"b":2}`), &o); err == nil {
		t.Fatalf("未知字段应报错")
	}
}

// TestFactories 遍历注册表入口。
func TestFactories(t *testing.T) {
	t.Run("reader", func(t *testing.T) {
		if _, err := Reader["fs"](json.RawMessage(`{"buf_size":4096}`)); err != nil {
			t.Fatalf("reader: %v", err)
		}
		if _, err := Reader["fs"](json.RawMessage(`{"x":1}`)); err == nil {
			t.Fatalf("reader 未对未知字段报错")
		}
	})
	for _, name := range []string{"utf8", "utf8-lossy"} {
		t.Run("decoder-"+name, func(t *testing.T) {
			if _, err := Decoder[name](json.RawMessage(`{"strip_bom":true}`)); err != nil {
				t.Fatalf("decoder: %v", err)
			}
			if _, err := Decoder[name](json.RawMessage(`{"x":1}`)); err == nil {
				t.Fatalf("decoder 未对未知字段报错")
			}
		})
	}
	for _, name := range []string{"stdout", "fs"} {
		t.Run("writer-"+name, func(t *testing.T) {
			if _, err := Writer[name](nil); err != nil {
				t.Fatalf("writer: %v", err)
			}
			if _, err := Writer[name](json.RawMessage(`{"x":1}`)); err == nil {
				t.Fatalf("writer 未对未知字段报错")
			}
		})
	}
}

// TestDecoderNames 名称集合即 --encoding 的合法取值。
func TestDecoderNames(t *testing.T) {
	var names []string
	for k := range Decoder {
		names = append(names, k)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "utf8" || names[1] != "utf8-lossy" {
		t.Fatalf("decoder names: %v", names)
	}
}
