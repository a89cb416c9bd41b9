package extractor

import (
	"reflect"
	"testing"

	"github.com/frederic-klein/ivyver/internal/pattern"
)

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		template string
		name     string
		want     string
		wantOK   bool
	}{
		{"[revision]", "1.2", "1.2", true},
		{"[revision]", "a-version", "a-version", true},
		{"version-[revision]", "version-1.0", "1.0", true},
		{"version-[revision]", "nonmatching", "", false},
		{"version-[revision]", "xversion-1.0", "", false},
		{"version-[revision]", "version-", "", false},
		{"proj1-[revision].jar", "proj1-2.0.jar", "2.0", true},
		{"proj1-[revision].jar", "proj1-2.0.jar.sha1", "", false},
		{"proj1-[revision].jar", "proj1-2x0.jar", "", false},
		{"a.b-[revision]", "aXb-1", "", false},
		{"[revision]-[revision]", "1.0-1.0", "1.0", true},
		{"[revision]-[revision]", "1.0-2.0", "", false},
		{"[revision]-[revision]", "a-b-a-b", "a-b", true},
		{"[classifier]-[revision]", "[classifier]-3", "3", true},
	}

	for _, tt := range tests {
		t.Run(tt.template+"/"+tt.name, func(t *testing.T) {
			got, ok := Compile(pattern.Parse(tt.template)).Match(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Match(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		template string
		listed   []string
		want     []string
	}{
		{"root listing", "[revision]", []string{"1", "2.1", "a-version"}, []string{"1", "2.1", "a-version"}},
		{"skips non matching", "version-[revision]", []string{"version-1", "nonmatching", "version-2"}, []string{"1", "2"}},
		{"keeps order and duplicates", "[revision]", []string{"b", "a", "b"}, []string{"b", "a", "b"}},
		{"absent listing", "[revision]", nil, nil},
		{"empty listing", "[revision]", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(pattern.Parse(tt.template), tt.listed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}
