package config

import (
	"os"
	"path/filepath"
	"testing"
)

type recordingSetter struct {
	models []string
}

func (r *recordingSetter) SetDefaultModel(model string) {
	r.models = append(r.models, model)
}

var _ ModelSetter = (*recordingSetter)(nil)

func TestReload_PushesModelOverrides(t *testing.T) {
	path := writeConfig(t, `
providers:
  openai:
    model: "gpt-new"
  google:
    model: ""
`)
	openaiSetter := &recordingSetter{}
	googleSetter := &recordingSetter{}
	m := NewManager(path, &Config{}, map[string]ModelSetter{
		"openai": openaiSetter,
		"google": googleSetter,
	})

	if err := m.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(openaiSetter.models) != 1 || openaiSetter.models[0] != "gpt-new" {
		t.Errorf("expected gpt-new pushed, got %v", openaiSetter.models)
	}
	if len(googleSetter.models) != 0 {
		t.Errorf("empty model must be skipped, got %v", googleSetter.models)
	}
}

func TestReload_UpdatesCurrentSnapshot(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 7777\n")
	m := NewManager(path, &Config{}, nil)

	if err := m.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Current().Server.Port; got != 7777 {
		t.Errorf("expected reloaded port 7777, got %d", got)
	}
}

func TestReload_BadYAMLKeepsPreviousSnapshot(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 7777\n")
	m := NewManager(path, &Config{Server: ServerConfig{Port: 1111}}, nil)

	if err := os.WriteFile(path, []byte("server: [broken\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.Reload(); err == nil {
		t.Fatal("expected reload error on bad yaml")
	}
	if got := m.Current().Server.Port; got != 1111 {
		t.Errorf("expected previous snapshot to survive, got port %d", got)
	}
}

func TestManager_StartStop(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	m := NewManager(path, &Config{}, nil)

	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Stop()
}

func TestManager_StartMissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope.yaml"), &Config{}, nil)
	if err := m.Start(); err == nil {
		m.Stop()
		t.Fatal("expected error watching a missing file")
	}
}
