//go:build !windows

package filesystem

import (
	"testing"

	"codeminimap/pkg/contract"
)

// TestMapPathInvalidUnix Unix 下的越界校验
func TestMapPathInvalidUnix(t *testing.T) {
	w := New(&Options{Root: t.TempDir()})
	for _, id := range []string{"/abs", "..", ".", "a/../../b"} {
		if _, err := w.mapPath(contract.ArtifactID(id)); err != contract.ErrPathInvalid {
			t.Fatalf("id %s expect invalid", id)
		}
	}
	// 无 Root 时绝对路径合法
	if p, err := New(nil).mapPath("/tmp/x.txt"); err != nil || p != "/tmp/x.txt" {
		t.Fatalf("abs without root: %q %v", p, err)
	}
}
