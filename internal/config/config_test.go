package config

import (
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("PRINT_QR_WORKERS", "")
	t.Setenv("LABEL_API_TIMEOUT", "")
	t.Setenv("SYNC_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "3210" {
		t.Errorf("Port = %s, want 3210", cfg.Port)
	}
	if cfg.Print.QRWorkers != 4 {
		t.Errorf("QRWorkers = %d, want 4", cfg.Print.QRWorkers)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Backend timeout = %v, want 30s", cfg.Backend.Timeout)
	}
	if cfg.Sync.Interval != 15*time.Minute {
		t.Errorf("Sync interval = %v, want 15m", cfg.Sync.Interval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PRINT_QR_WORKERS", "8")
	t.Setenv("LABEL_API_TIMEOUT", "45")
	t.Setenv("PRINT_TIMEOUT", "2m")
	t.Setenv("SYNC_INTERVAL", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Print.QRWorkers != 8 {
		t.Errorf("QRWorkers = %d, want 8", cfg.Print.QRWorkers)
	}
	if cfg.Backend.Timeout != 45*time.Second {
		t.Errorf("Backend timeout = %v, want 45s", cfg.Backend.Timeout)
	}
	if cfg.Print.Timeout != 2*time.Minute {
		t.Errorf("Print timeout = %v, want 2m", cfg.Print.Timeout)
	}
	if cfg.Sync.Interval != 0 {
		t.Errorf("Sync interval = %v, want disabled", cfg.Sync.Interval)
	}
}

func TestLocationFallback(t *testing.T) {
	if loc := (PrintConfig{Timezone: "Not/AZone"}).Location(); loc != time.Local {
		t.Errorf("expected local fallback, got %v", loc)
	}
	if loc := (PrintConfig{Timezone: "UTC"}).Location(); loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v", loc)
	}
}
