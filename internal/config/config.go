package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/ivyver/internal/pattern"
)

const defaultHTTPTimeout = 30 * time.Second

// Config represents the ivyver.yaml configuration file.
type Config struct {
	Version      int          `yaml:"version"`
	Repositories []Repository `yaml:"repositories"`
	HTTP         HTTP         `yaml:"http,omitempty"`
	S3           S3           `yaml:"s3,omitempty"`
}

// Repository is a named set of Ivy and artifact location patterns.
type Repository struct {
	Name             string   `yaml:"name"`
	IvyPatterns      []string `yaml:"ivy_patterns,omitempty"`
	ArtifactPatterns []string `yaml:"artifact_patterns,omitempty"`
}

// HTTP configures listing of http(s) locations.
type HTTP struct {
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	MaxIndexSize int64         `yaml:"max_index_size,omitempty"`
}

// S3 configures listing of s3:// locations.
type S3 struct {
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Default returns a configuration without repositories.
func Default() *Config {
	return &Config{
		Version: 1,
		HTTP:    HTTP{Timeout: defaultHTTPTimeout},
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// LoadWithAdHoc loads path and appends adHoc when it carries patterns.
// A missing file is tolerated only when optional is set and adHoc has
// patterns; the defaults are used instead.
func LoadWithAdHoc(path string, optional bool, adHoc Repository) (*Config, error) {
	hasAdHoc := len(adHoc.IvyPatterns) > 0 || len(adHoc.ArtifactPatterns) > 0

	cfg, err := Load(path)
	switch {
	case err == nil:
	case optional && hasAdHoc && errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	default:
		return nil, err
	}

	if !hasAdHoc {
		return cfg, nil
	}
	cfg.Repositories = append(cfg.Repositories, adHoc)
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d, only version 1 is supported", cfg.Version))
	}

	if len(cfg.Repositories) == 0 {
		errs = append(errs, "at least one repository is required")
	}

	names := make(map[string]bool)
	for i, repo := range cfg.Repositories {
		prefix := fmt.Sprintf("repository[%d]", i)
		if repo.Name != "" {
			prefix = fmt.Sprintf("repository '%s'", repo.Name)
		}

		if repo.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		} else if names[repo.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate repository name '%s'", prefix, repo.Name))
		} else {
			names[repo.Name] = true
		}

		if len(repo.IvyPatterns) == 0 && len(repo.ArtifactPatterns) == 0 {
			errs = append(errs, fmt.Sprintf("%s: at least one of 'ivy_patterns' or 'artifact_patterns' is required", prefix))
		}
		errs = append(errs, emptyPatterns(prefix, "ivy_patterns", repo.IvyPatterns)...)
		errs = append(errs, emptyPatterns(prefix, "artifact_patterns", repo.ArtifactPatterns)...)
	}

	if cfg.HTTP.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("http: invalid timeout %s", cfg.HTTP.Timeout))
	}
	if cfg.HTTP.MaxIndexSize < 0 {
		errs = append(errs, fmt.Sprintf("http: invalid max_index_size %d", cfg.HTTP.MaxIndexSize))
	}

	return errs
}

func emptyPatterns(prefix, field string, patterns []string) []string {
	var errs []string
	for i, p := range patterns {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("%s: '%s'[%d] is empty", prefix, field, i))
		}
	}
	return errs
}

// Warnings lists patterns that can never yield a version because they have
// no [revision] placeholder.
func Warnings(cfg *Config) []string {
	var warns []string
	for _, repo := range cfg.Repositories {
		for _, p := range append(append([]string{}, repo.IvyPatterns...), repo.ArtifactPatterns...) {
			if !pattern.Parse(p).HasRevision() {
				warns = append(warns, fmt.Sprintf("repository '%s': pattern '%s' has no [revision] placeholder", repo.Name, p))
			}
		}
	}
	return warns
}
