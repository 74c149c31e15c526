package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlainColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func withBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	withPlainColor(t)
	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		withBuildInfo(t, tt.version, "", "")
		if got := Colored(); got != tt.want {
			t.Errorf("Colored() with %q = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestColoredUsesColor(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })
	withBuildInfo(t, "1.2.3", "", "")
	if got := Colored(); got == "1.2.3" {
		t.Errorf("Colored() = %q, want escape sequences", got)
	}
}

func TestString(t *testing.T) {
	withPlainColor(t)
	tests := []struct {
		commit, date string
		want         string
	}{
		{"", "", "ilemit 1.0.0"},
		{"abc123", "", "ilemit 1.0.0 (commit abc123)"},
		{"abc123", "2026-01-15", "ilemit 1.0.0 (commit abc123, built 2026-01-15)"},
		{"", "2026-01-15", "ilemit 1.0.0 (built 2026-01-15)"},
	}
	for _, tt := range tests {
		withBuildInfo(t, "1.0.0", tt.commit, tt.date)
		if got := String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func BenchmarkString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = String()
	}
}
