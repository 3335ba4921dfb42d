package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DCParty/senior-scheduler/internal/config"
)

func TestLoadFirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	conf, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.Backend != config.BackendLocal {
		t.Errorf("default backend: got %s", conf.Backend)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("first run should persist the default config: %v", err)
	}

	info, _ := os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config permissions: got %o", perm)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := config.DefaultConfig()
	want.Backend = config.BackendRemote
	want.ServerAddr = "reminder.example.com:443"
	want.SpeechCommand = "say -v Meijia"
	if err := config.Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Backend != want.Backend || got.ServerAddr != want.ServerAddr || got.SpeechCommand != want.SpeechCommand {
		t.Errorf("round trip mismatch: %+v vs %+v", got, want)
	}
}

func TestLoadFillsMissingBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server_addr: example.com:50051\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	conf, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.Backend != config.BackendLocal {
		t.Errorf("missing backend should default to local, got %s", conf.Backend)
	}
	if conf.ServerAddr != "example.com:50051" {
		t.Errorf("server addr lost: %s", conf.ServerAddr)
	}
}
