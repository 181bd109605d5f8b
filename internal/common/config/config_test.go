package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]byte(`{
		"server": {"name": "rental-service", "http_port": 9090},
		"auth": {"enabled": true, "jwt_secret": "s", "public_actions": ["loginUser"]}
	}`))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.Server.Name != "rental-service" || cfg.Server.HTTPPort != 9090 {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if !cfg.Auth.Enabled || len(cfg.Auth.PublicActions) != 1 {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}

	if _, err := parseConfig([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}

func TestLoadConfigBadFileFailsConsistently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
	// 首次失败后重复加载必须仍然报错，而不是放出半初始化配置
	if cfg, err := LoadConfig(path); err == nil || cfg != nil {
		t.Fatalf("expected repeated load to fail, got cfg=%v err=%v", cfg, err)
	}
}
