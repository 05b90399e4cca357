package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvSchema, "/etc/app.schema.yaml")
	t.Setenv(EnvJSON, "1")
	t.Setenv(EnvNoColor, "true")
	t.Setenv(EnvDebug, "yes")

	got := FromEnv()
	want := Settings{SchemaPath: "/etc/app.schema.yaml", JSON: true, NoColor: true, Debug: false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromEnv() (-want +got):\n%s", diff)
	}
}

func TestFromEnv_Unset(t *testing.T) {
	got := fromLookup(func(string) string { return "" })
	if diff := cmp.Diff(Settings{}, got); diff != "" {
		t.Errorf("fromLookup(empty) (-want +got):\n%s", diff)
	}
}

func TestResolvePaths_Explicit(t *testing.T) {
	fs := afero.NewMemMapFs()
	p, err := ResolvePaths(fs, "/app.cfg", "/schemas/app.toml")
	if err != nil {
		t.Fatalf("ResolvePaths: %v", err)
	}
	if p.SchemaFile != "/schemas/app.toml" || p.ConfigFile != "/app.cfg" {
		t.Errorf("Paths = %+v", p)
	}
}

func TestResolvePaths_Sibling(t *testing.T) {
	tests := []struct {
		name     string
		existing string
	}{
		{"full name", "/etc/app.cfg.schema.yaml"},
		{"replaced extension", "/etc/app.schema.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, tt.existing, []byte("{}"), 0644); err != nil {
				t.Fatal(err)
			}
			p, err := ResolvePaths(fs, "/etc/app.cfg", "")
			if err != nil {
				t.Fatalf("ResolvePaths: %v", err)
			}
			if p.SchemaFile != tt.existing {
				t.Errorf("SchemaFile = %q, want %q", p.SchemaFile, tt.existing)
			}
		})
	}
}

func TestResolvePaths_PrefersFullName(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, f := range []string{"/etc/app.schema.yaml", "/etc/app.cfg.schema.yml"} {
		if err := afero.WriteFile(fs, f, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	p, err := ResolvePaths(fs, "/etc/app.cfg", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.SchemaFile != "/etc/app.cfg.schema.yml" {
		t.Errorf("SchemaFile = %q", p.SchemaFile)
	}
}

func TestResolvePaths_NotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := ResolvePaths(fs, "/etc/.hidden", "")
	if err == nil {
		t.Fatal("expected error when no schema exists")
	}
	if !strings.Contains(err.Error(), EnvSchema) {
		t.Errorf("error should mention %s: %v", EnvSchema, err)
	}
	if strings.Contains(err.Error(), "/etc/.schema.yaml") {
		t.Errorf("leading dot treated as extension: %v", err)
	}
}
