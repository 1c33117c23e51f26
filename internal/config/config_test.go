package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(viper.New(), writeConfig(t, "data_dir: "+dir+"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Snapshot.Backend != BackendFile {
		t.Errorf("expected file backend, got %s", cfg.Snapshot.Backend)
	}
	if cfg.Snapshot.Path != dir {
		t.Errorf("expected snapshot path %s, got %s", dir, cfg.Snapshot.Path)
	}
	if cfg.Camera.ReleaseSettle != 300*time.Millisecond {
		t.Errorf("expected release settle 300ms, got %v", cfg.Camera.ReleaseSettle)
	}
	if cfg.Image.MaxWidth != 600 || cfg.Image.Quality != 80 {
		t.Errorf("expected 600px at quality 80, got %dpx at %d", cfg.Image.MaxWidth, cfg.Image.Quality)
	}
	if cfg.Packet.OutputDir != filepath.Join(dir, "packets") {
		t.Errorf("unexpected packet dir %s", cfg.Packet.OutputDir)
	}
	if !cfg.Online() {
		t.Error("expected online by default")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
data_dir: `+dir+`
offline: true
snapshot:
  backend: sqlite
camera:
  device: /dev/video2
  attach_settle: 250ms
packet:
  dicom: true
  opener: [firefox, --new-window]
`)

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Snapshot.Path != filepath.Join(dir, "intake.db") {
		t.Errorf("expected sqlite database under data dir, got %s", cfg.Snapshot.Path)
	}
	if cfg.Camera.Device != "/dev/video2" {
		t.Errorf("expected /dev/video2, got %s", cfg.Camera.Device)
	}
	if cfg.Camera.AttachSettle != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.Camera.AttachSettle)
	}
	if !cfg.Packet.DICOM {
		t.Error("expected DICOM export enabled")
	}
	if len(cfg.Packet.Opener) != 2 || cfg.Packet.Opener[0] != "firefox" {
		t.Errorf("unexpected opener %v", cfg.Packet.Opener)
	}
	if cfg.Online() {
		t.Error("expected offline")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("INTAKEFORGE_IMAGE_QUALITY", "65")

	cfg, err := Load(viper.New(), writeConfig(t, "data_dir: "+t.TempDir()+"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Image.Quality != 65 {
		t.Errorf("expected quality 65 from env, got %d", cfg.Image.Quality)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load(viper.New(), writeConfig(t, "snapshot: [\n"))
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DataDir:  "/tmp/x",
			Snapshot: SnapshotConfig{Backend: BackendFile},
			Image:    ImageConfig{MaxWidth: 600, Quality: 80},
			Logging:  LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no data dir", func(c *Config) { c.DataDir = "" }, true},
		{"unknown backend", func(c *Config) { c.Snapshot.Backend = "redis" }, true},
		{"negative settle", func(c *Config) { c.Camera.ReleaseSettle = -time.Second }, true},
		{"zero width", func(c *Config) { c.Image.MaxWidth = 0 }, true},
		{"quality too high", func(c *Config) { c.Image.Quality = 101 }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
