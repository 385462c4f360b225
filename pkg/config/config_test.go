package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.App.Port != "8600" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if !cfg.App.IsDev() {
		t.Fatal("expected dev env by default")
	}
	if cfg.DB.Path != "pedidos.db" {
		t.Fatalf("unexpected db path %q", cfg.DB.Path)
	}
	if cfg.Remote.GetTimeout != 15*time.Second {
		t.Fatalf("unexpected GET timeout %v", cfg.Remote.GetTimeout)
	}
	if cfg.Remote.PostTimeout != 10*time.Second {
		t.Fatalf("unexpected POST timeout %v", cfg.Remote.PostTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PEDIDOS_APP_ENV", "prod")
	t.Setenv("PEDIDOS_APP_PORT", "9000")
	t.Setenv("PEDIDOS_REMOTE_GET_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatal("expected prod env")
	}
	if cfg.App.Port != "9000" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if cfg.Remote.GetTimeout != 5*time.Second {
		t.Fatalf("unexpected GET timeout %v", cfg.Remote.GetTimeout)
	}
}
