package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifestFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[emit]\nfixture = \"fixtures/demo.toml\"\njobs = 4\nsnapshot = \"out/demo.mp\"\n")
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifestFrom(sub)
	if err != nil || !ok {
		t.Fatalf("LoadManifestFrom: ok=%v err=%v", ok, err)
	}
	want := Manifest{
		Path:     filepath.Join(root, ManifestName),
		Root:     root,
		Fixture:  filepath.Join(root, "fixtures", "demo.toml"),
		Snapshot: filepath.Join(root, "out", "demo.mp"),
		Jobs:     4,
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("manifest (-want +got):\n%s", diff)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no emit", "[other]\nx = 1\n", ErrEmitSectionMissing},
		{"no fixture", "[emit]\njobs = 2\n", ErrFixtureMissing},
		{"blank fixture", "[emit]\nfixture = \"  \"\n", ErrFixtureMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			writeFile(t, path, tt.content)
			if _, err := LoadManifest(path); !errors.Is(err, tt.want) {
				t.Fatalf("got %v want %v", err, tt.want)
			}
		})
	}
	path := filepath.Join(dir, "neg.toml")
	writeFile(t, path, "[emit]\nfixture = \"x\"\njobs = -1\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("negative jobs accepted")
	}
}

func TestFindManifestAbsent(t *testing.T) {
	if _, ok, err := FindManifest(t.TempDir()); err != nil || ok {
		// A manifest above the temp dir would make this test meaningless.
		t.Skipf("manifest found above temp dir: ok=%v err=%v", ok, err)
	}
}

func TestDigest(t *testing.T) {
	a := HashBytes([]byte("fixture"))
	if a.IsZero() || len(a.String()) != 64 {
		t.Fatalf("digest %s", a)
	}
	if (Digest{}).String() != strings.Repeat("0", 64) || !(Digest{}).IsZero() {
		t.Fatalf("zero digest")
	}
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, "fixture")
	got, err := HashFile(path)
	if err != nil || got != a {
		t.Fatalf("HashFile = %s, %v", got, err)
	}
}
