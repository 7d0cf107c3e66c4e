package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testCatalogYAML = `rigs:
  biped:
    poses:
      Idle:
        - id: anim://idle1
          weight: 9
        - id: anim://idle2
          weight: 1
      Walk:
        - id: anim://walk
    actions:
      wave:
        - id: anim://wave
          fadeOut: 0.2
`

// TestLoadCatalogFile 测试默认目录文件的加载
func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(testCatalogYAML), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	file, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("LoadCatalogFile failed: %v", err)
	}

	rig, ok := file.Rig("biped")
	if !ok {
		t.Fatal("Expected rig biped")
	}
	idle, ok := rig.Poses["Idle"]
	if !ok || len(idle) != 2 {
		t.Fatalf("Expected 2 idle clips, got %+v", idle)
	}
	if idle[0].Weight != 9 || idle[1].Weight != 1 {
		t.Errorf("Weights not parsed: %+v", idle)
	}
	wave, ok := rig.Actions["wave"]
	if !ok || wave[0].FadeOut != 0.2 {
		t.Errorf("Action not parsed: %+v", wave)
	}

	if _, ok := file.Rig("quadruped"); ok {
		t.Error("Unexpected rig")
	}
}

// TestLoadCatalogFileInvalid 测试非法目录文件被整体拒绝
func TestLoadCatalogFileInvalid(t *testing.T) {
	dir := t.TempDir()

	// 空 rigs
	empty := filepath.Join(dir, "empty.yaml")
	_ = os.WriteFile(empty, []byte("rigs: {}\n"), 0o644)
	if _, err := LoadCatalogFile(empty); err == nil {
		t.Error("Expected error for empty rigs")
	}

	// 缺少剪辑 id 的列表
	bad := filepath.Join(dir, "bad.yaml")
	badYAML := "rigs:\n  biped:\n    poses:\n      Idle:\n        - weight: 3\n"
	_ = os.WriteFile(bad, []byte(badYAML), 0o644)
	if _, err := LoadCatalogFile(bad); err == nil {
		t.Error("Expected error for missing clip id")
	}

	if _, err := LoadCatalogFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
