package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMergePrecedence(t *testing.T) {
	global := &Config{
		APIBaseURL:  "https://global.example.com",
		DefaultRole: "Backend Engineer",
		OutputDir:   "/tmp/global",
	}
	project := &Config{
		APIBaseURL:    "https://project.example.com",
		DefaultSkill:  "System Design",
		NoAnnotations: true,
	}

	got := Merge(global, project)

	if got.APIBaseURL != "https://project.example.com" {
		t.Errorf("project should win: %q", got.APIBaseURL)
	}
	if got.DefaultRole != "Backend Engineer" {
		t.Errorf("global fills the gap: %q", got.DefaultRole)
	}
	if got.DefaultSkill != "System Design" {
		t.Errorf("project-only key: %q", got.DefaultSkill)
	}
	if got.OutputDir != "/tmp/global" {
		t.Errorf("output dir = %q", got.OutputDir)
	}
	if !got.NoAnnotations {
		t.Error("no_annotations not carried")
	}
	// Defaults backfill anything neither file sets.
	if got.DefaultFormat != "markdown" {
		t.Errorf("default format = %q", got.DefaultFormat)
	}
}

func TestMergeNilConfigs(t *testing.T) {
	got := Merge(nil, nil)
	if got != Defaults() {
		t.Errorf("Merge(nil, nil) = %+v, want defaults", got)
	}
}

func TestLoadGlobalAbsentReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	got, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if *got != Defaults() {
		t.Errorf("got %+v, want defaults", *got)
	}
}

func TestLoadGlobalParsesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "intervu")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{"api_base_url": "https://api.example.com", "default_role": "SRE"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if got.APIBaseURL != "https://api.example.com" || got.DefaultRole != "SRE" {
		t.Errorf("got %+v", got)
	}
}

func TestLoadGlobalMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "intervu")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("INTERVU_API_URL", "https://env.example.com")
	t.Setenv("INTERVU_API_KEY", "secret")

	got := ApplyEnv(Config{APIBaseURL: "https://file.example.com"})
	if got.APIBaseURL != "https://env.example.com" {
		t.Errorf("base url = %q", got.APIBaseURL)
	}
	if got.APIKey != "secret" {
		t.Errorf("api key = %q", got.APIKey)
	}
}

func TestApplyEnvNoopWhenUnset(t *testing.T) {
	t.Setenv("INTERVU_API_URL", "")
	t.Setenv("INTERVU_API_KEY", "")

	in := Config{APIBaseURL: "https://file.example.com", APIKey: "k"}
	if got := ApplyEnv(in); got != in {
		t.Errorf("got %+v, want unchanged", got)
	}
}
