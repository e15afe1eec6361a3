package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestWatchForChanges_InvokesOnReload exercises the live-reload path the
// server wires gc.interval and log.level through: editing the config file
// on disk after WatchForChanges is running must deliver a freshly
// unmarshaled *Config to the callback.
func TestWatchForChanges_InvokesOnReload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	initial := "gc:\n  interval: 100ms\nlog:\n  level: info\n"
	if err := os.WriteFile(cfgPath, []byte(initial), 0o644); err != nil {
		t.Fatalf("write initial config: %v", err)
	}

	if _, err := Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	reloaded := make(chan *Config, 1)
	stop, err := WatchForChanges(dir, zap.NewNop(), func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchForChanges: %v", err)
	}
	defer stop()

	updated := "gc:\n  interval: 500ms\nlog:\n  level: debug\n"
	if err := os.WriteFile(cfgPath, []byte(updated), 0o644); err != nil {
		t.Fatalf("write updated config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.GC.Interval != 500*time.Millisecond {
			t.Errorf("reloaded GC.Interval = %v, want 500ms", cfg.GC.Interval)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("reloaded Log.Level = %q, want %q", cfg.Log.Level, "debug")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("onReload was not invoked after config file write")
	}
}
