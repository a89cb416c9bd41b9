package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ivyver.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `version: 1
repositories:
  - name: internal
    ivy_patterns:
      - "https://repo.example.com/ivy/[organisation]/[module]/[revision]/ivy-[revision].xml"
    artifact_patterns:
      - "https://repo.example.com/ivy/[organisation]/[module]/[revision]/[artifact]-[revision].[ext]"
  - name: mirror
    artifact_patterns:
      - "s3://artifacts/[organisation]/[module]/[revision]/[artifact].[ext]"
http:
  timeout: 5s
s3:
  region: eu-west-1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Repositories) != 2 {
		t.Fatalf("got %d repositories, want 2", len(cfg.Repositories))
	}
	if cfg.Repositories[0].Name != "internal" || len(cfg.Repositories[0].IvyPatterns) != 1 {
		t.Errorf("unexpected first repository: %+v", cfg.Repositories[0])
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("HTTP.Timeout = %v, want 5s", cfg.HTTP.Timeout)
	}
	if cfg.S3.Region != "eu-west-1" {
		t.Errorf("S3.Region = %q, want eu-west-1", cfg.S3.Region)
	}
}

func TestLoad_DefaultTimeout(t *testing.T) {
	path := writeConfig(t, `version: 1
repositories:
  - name: local
    ivy_patterns: ["/srv/ivy/[organisation]/[module]/[revision]/ivy.xml"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Timeout != defaultHTTPTimeout {
		t.Errorf("HTTP.Timeout = %v, want %v", cfg.HTTP.Timeout, defaultHTTPTimeout)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestLoadWithAdHoc(t *testing.T) {
	adHoc := Repository{Name: "command-line", IvyPatterns: []string{"/srv/[organisation]/[module]/[revision]/ivy.xml"}}
	existing := writeConfig(t, `
version: 1
repositories:
  - name: main
    ivy_patterns: ["https://repo/[organisation]/[module]/[revision]/ivy.xml"]
`)
	missing := filepath.Join(t.TempDir(), "ivyver.yaml")

	tests := []struct {
		name      string
		path      string
		optional  bool
		adHoc     Repository
		wantRepos []string
		wantErr   error
	}{
		{name: "file only", path: existing, wantRepos: []string{"main"}},
		{name: "file plus ad-hoc", path: existing, adHoc: adHoc, wantRepos: []string{"main", "command-line"}},
		{name: "missing optional file with ad-hoc", path: missing, optional: true, adHoc: adHoc, wantRepos: []string{"command-line"}},
		{name: "missing optional file without ad-hoc", path: missing, optional: true, wantErr: fs.ErrNotExist},
		{name: "missing explicit file with ad-hoc", path: missing, adHoc: adHoc, wantErr: fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWithAdHoc(tt.path, tt.optional, tt.adHoc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadWithAdHoc() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadWithAdHoc() error = %v", err)
			}
			var names []string
			for _, r := range cfg.Repositories {
				names = append(names, r.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.wantRepos, ",") {
				t.Errorf("repositories = %v, want %v", names, tt.wantRepos)
			}
			if cfg.HTTP.Timeout != defaultHTTPTimeout {
				t.Errorf("HTTP.Timeout = %v, want default", cfg.HTTP.Timeout)
			}
		})
	}
}

func TestLoadWithAdHoc_InvalidAdHoc(t *testing.T) {
	_, err := LoadWithAdHoc(filepath.Join(t.TempDir(), "ivyver.yaml"), true, Repository{Name: "command-line", ArtifactPatterns: []string{""}})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("LoadWithAdHoc() error = %v, want *ValidationError", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "version: [1\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, "version: 2\n")
	_, err := Load(path)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Load() error = %v, want *ValidationError", err)
	}
	if len(vErr.Errors) != 2 {
		t.Errorf("got %d validation errors, want 2: %v", len(vErr.Errors), vErr.Errors)
	}
	if !strings.Contains(err.Error(), "unsupported version 2") {
		t.Errorf("missing version error: %s", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Version: 1, Repositories: []Repository{{Name: "a", IvyPatterns: []string{"[revision]"}}}},
		},
		{
			name:    "missing name",
			cfg:     Config{Version: 1, Repositories: []Repository{{IvyPatterns: []string{"[revision]"}}}},
			wantErr: "repository[0]: 'name' is required",
		},
		{
			name: "duplicate name",
			cfg: Config{Version: 1, Repositories: []Repository{
				{Name: "a", IvyPatterns: []string{"[revision]"}},
				{Name: "a", IvyPatterns: []string{"[revision]"}},
			}},
			wantErr: "duplicate repository name 'a'",
		},
		{
			name:    "no patterns",
			cfg:     Config{Version: 1, Repositories: []Repository{{Name: "a"}}},
			wantErr: "at least one of 'ivy_patterns' or 'artifact_patterns' is required",
		},
		{
			name:    "empty artifact pattern",
			cfg:     Config{Version: 1, Repositories: []Repository{{Name: "a", IvyPatterns: []string{"[revision]"}, ArtifactPatterns: []string{" "}}}},
			wantErr: "repository 'a': 'artifact_patterns'[0] is empty",
		},
		{
			name:    "empty ivy pattern",
			cfg:     Config{Version: 1, Repositories: []Repository{{Name: "a", IvyPatterns: []string{"[revision]", ""}}}},
			wantErr: "repository 'a': 'ivy_patterns'[1] is empty",
		},
		{
			name:    "negative timeout",
			cfg:     Config{Version: 1, Repositories: []Repository{{Name: "a", IvyPatterns: []string{"[revision]"}}}, HTTP: HTTP{Timeout: -time.Second}},
			wantErr: "http: invalid timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.cfg)
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Errorf("Validate() = %v, want no errors", errs)
				}
				return
			}
			joined := strings.Join(errs, "\n")
			if !strings.Contains(joined, tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", errs, tt.wantErr)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := &Config{Version: 1, Repositories: []Repository{{
		Name:             "a",
		IvyPatterns:      []string{"/[organisation]/[module]/ivy.xml"},
		ArtifactPatterns: []string{"/[organisation]/[module]/[revision]/[artifact].[ext]"},
	}}}

	warns := Warnings(cfg)
	if len(warns) != 1 {
		t.Fatalf("Warnings() = %v, want 1 warning", warns)
	}
	if !strings.Contains(warns[0], "/[organisation]/[module]/ivy.xml") {
		t.Errorf("unexpected warning: %s", warns[0])
	}
}
