package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("RAIDO_TEST_TOKEN", "s3cret")
	p := writeFile(t, "app.yaml", "name: raido\ntoken: ${RAIDO_TEST_TOKEN}\n")

	var got sample
	if err := Load(p, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "raido" || got.Token != "s3cret" {
		t.Errorf("got = %+v", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var got sample
	err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &got)
	if err == nil || !strings.Contains(err.Error(), "read") {
		t.Fatalf("err = %v, want read error", err)
	}
}

type validated struct {
	Name string `yaml:"name"`
}

func (v *validated) Validate() error {
	if v.Name == "" {
		return os.ErrInvalid
	}
	return nil
}

func TestLoad_RunsValidator(t *testing.T) {
	p := writeFile(t, "bad.yaml", "name: \"\"\n")
	var got validated
	err := Load(p, &got)
	if err == nil || !strings.Contains(err.Error(), "validate") {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestLoadWithDefaults_FallsBack(t *testing.T) {
	def := writeFile(t, "default.yaml", "name: fallback\n")
	var got sample
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"), def, &got); err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if got.Name != "fallback" {
		t.Errorf("name = %q, want fallback", got.Name)
	}
}
