package wizard

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEventPreset_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.yaml")
	content := `
name: "  Spring Health Fair "
date: "2024-05-01"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}

	p, err := LoadEventPreset(path)
	if err != nil {
		t.Fatalf("LoadEventPreset failed: %v", err)
	}
	if p.Name != "Spring Health Fair" {
		t.Errorf("Expected trimmed name, got %q", p.Name)
	}
	if p.Date != "2024-05-01" {
		t.Errorf("Expected date 2024-05-01, got %q", p.Date)
	}
}

func TestLoadEventPreset_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "name: [unterminated"},
		{"missing name", "date: 2024-05-01\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write preset: %v", err)
			}
			if _, err := LoadEventPreset(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	if _, err := LoadEventPreset(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSaveEventPreset_AndLoadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets", "fair.yaml")
	want := &EventPreset{Name: "County Fair", Date: "2024-08-12"}

	if err := SaveEventPreset(path, want); err != nil {
		t.Fatalf("SaveEventPreset failed: %v", err)
	}

	got, err := LoadEventPreset(path)
	if err != nil {
		t.Fatalf("LoadEventPreset failed: %v", err)
	}
	if *got != *want {
		t.Errorf("Round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestSaveEventPreset_InvalidPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := SaveEventPreset(filepath.Join(file, "sub", "p.yaml"), &EventPreset{Name: "x"}); err == nil {
		t.Error("Expected error when the parent is a file")
	}
}
