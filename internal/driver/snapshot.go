package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"ilemit/internal/il"
	"ilemit/internal/mdump"
	"ilemit/internal/project"
)

// Current schema version - increment when Snapshot format changes
const snapshotSchemaVersion uint16 = 1

// ErrSnapshotSchema reports a snapshot written by an incompatible version.
var ErrSnapshotSchema = errors.New("snapshot schema mismatch")

// Snapshot is the persisted form of a session's token tables.
type Snapshot struct {
	Schema   uint16
	Module   string
	Assembly string
	// Fixture is the digest of the fixture the session was loaded from.
	Fixture project.Digest

	References []TokenEntry
	Strings    []TokenEntry
}

// TokenEntry is one row of a token table.
type TokenEntry struct {
	Token uint32
	Kind  string
	Value string
}

// NewSnapshot captures the token tables of res.
func NewSnapshot(res *Result, fixture project.Digest) (*Snapshot, error) {
	if res == nil || res.Module == nil {
		return nil, errors.New("snapshot: no emission result")
	}
	s := &Snapshot{
		Schema:  snapshotSchemaVersion,
		Module:  res.Module.Name(),
		Fixture: fixture,
	}
	if asm := res.Module.ContainingAssembly(); asm != nil {
		s.Assembly = asm.Name()
	}
	for i, r := range res.References {
		tok, err := token(il.TagReference, i)
		if err != nil {
			return nil, err
		}
		s.References = append(s.References, TokenEntry{Token: tok, Kind: r.Kind().String(), Value: mdump.Name(r)})
	}
	for i, str := range res.Strings {
		tok, err := token(il.TagString, i)
		if err != nil {
			return nil, err
		}
		s.Strings = append(s.Strings, TokenEntry{Token: tok, Kind: "string", Value: str})
	}
	return s, nil
}

func token(tag byte, ordinal int) (uint32, error) {
	ord, err := safecast.Conv[uint32](ordinal)
	if err != nil {
		return 0, err
	}
	return il.Token(tag, ord)
}

// WriteSnapshot encodes s to path, replacing any previous file atomically.
func WriteSnapshot(path string, s *Snapshot) (err error) {
	if s == nil {
		return errors.New("snapshot: nil")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// Already renamed on success.
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(s); err != nil {
		_ = f.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	var s Snapshot
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", path, ErrSnapshotSchema, s.Schema, snapshotSchemaVersion)
	}
	return &s, nil
}
