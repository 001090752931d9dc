package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Flock.Count <= 0 {
		t.Errorf("default flock count = %d, want positive", cfg.Flock.Count)
	}
	if cfg.Flock.MaxSpeed < cfg.Flock.MinSpeed {
		t.Errorf("default speeds inverted: min=%v max=%v", cfg.Flock.MinSpeed, cfg.Flock.MaxSpeed)
	}
	if cfg.Derived.DT32 <= 0 {
		t.Errorf("derived dt not computed: %v", cfg.Derived.DT32)
	}
	if cfg.Derived.ScreenW32 != float32(cfg.Screen.Width) {
		t.Errorf("derived screen width %v does not match %d", cfg.Derived.ScreenW32, cfg.Screen.Width)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := []byte("flock:\n  count: 9\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Flock.Count != 9 {
		t.Errorf("flock count = %d, want override 9", cfg.Flock.Count)
	}
	// Fields absent from the override keep their defaults.
	if cfg.Screen.Width == 0 {
		t.Error("screen width lost its default after merge")
	}
	if cfg.Flock.Radius == 0 {
		t.Error("flock radius lost its default after merge")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero count", "flock:\n  count: 0\n"},
		{"inverted speeds", "flock:\n  min_speed: 10\n  max_speed: 5\n"},
		{"collapsed domain", "domain:\n  min: {x: 1, y: -1, z: -1}\n  max: {x: 1, y: 1, z: 1}\n"},
		{"zero dt", "physics:\n  dt: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() accepted an invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() ignored a missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML() failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config failed: %v", err)
	}
	if reloaded.Flock.Count != cfg.Flock.Count {
		t.Errorf("flock count changed through round trip: %d vs %d", reloaded.Flock.Count, cfg.Flock.Count)
	}
}
