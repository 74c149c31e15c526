package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrEmitSectionMissing indicates that [emit] is missing in the manifest.
	ErrEmitSectionMissing = errors.New("missing [emit]")
	// ErrFixtureMissing indicates that [emit].fixture is missing.
	ErrFixtureMissing = errors.New("missing [emit].fixture")
)

// Manifest is the [emit] section of ilemit.toml. Paths are absolute,
// resolved against the manifest directory.
type Manifest struct {
	Path     string
	Root     string
	Fixture  string
	Snapshot string
	// Jobs is zero when unset.
	Jobs int
}

type manifestDoc struct {
	Emit struct {
		Fixture  string `toml:"fixture"`
		Snapshot string `toml:"snapshot"`
		Jobs     int    `toml:"jobs"`
	} `toml:"emit"`
}

// LoadManifest parses the [emit] section of an ilemit.toml.
func LoadManifest(path string) (Manifest, error) {
	var doc manifestDoc
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("emit") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrEmitSectionMissing)
	}
	fixture := strings.TrimSpace(doc.Emit.Fixture)
	if !meta.IsDefined("emit", "fixture") || fixture == "" {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrFixtureMissing)
	}
	if doc.Emit.Jobs < 0 {
		return Manifest{}, fmt.Errorf("%s: [emit].jobs must not be negative, got %d", path, doc.Emit.Jobs)
	}
	root := filepath.Dir(path)
	m := Manifest{
		Path:    path,
		Root:    root,
		Fixture: resolveIn(root, fixture),
		Jobs:    doc.Emit.Jobs,
	}
	if snap := strings.TrimSpace(doc.Emit.Snapshot); snap != "" {
		m.Snapshot = resolveIn(root, snap)
	}
	return m, nil
}

// LoadManifestFrom finds and loads the manifest above startDir.
func LoadManifestFrom(startDir string) (Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return Manifest{}, ok, err
	}
	m, err := LoadManifest(path)
	if err != nil {
		return Manifest{}, true, err
	}
	return m, true, nil
}

func resolveIn(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
