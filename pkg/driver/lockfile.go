package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName is written next to dialect.yml by `dialect deps install`.
const LockfileName = "dialect.lock"

// Lockfile models the dialect.lock contents.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Grammar   *LockedGrammar
}

// LockedGrammar pins a git grammar source to one commit. Revision is the pin the commit
// was resolved from.
type LockedGrammar struct {
	Source   string
	Revision string
	Commit   string
	Path     string
	Checksum string
}

// NewLockfile constructs a lockfile with metadata seeded for the provided root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      sanitizeSegment(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
	}
}

// LoadLockfile parses dialect.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Matches reports whether the locked grammar was resolved from the given source, pin
// included.
func (l *Lockfile) Matches(src *GrammarSource) bool {
	if l == nil || l.Grammar == nil || src == nil {
		return false
	}
	return l.Grammar.Source == strings.TrimSpace(src.Git) &&
		l.Grammar.Revision == src.Revision() &&
		l.Grammar.Path == src.Path
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Root = sanitizeSegment(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	if g := l.Grammar; g != nil {
		g.Source = strings.TrimSpace(g.Source)
		g.Revision = strings.TrimSpace(g.Revision)
		g.Commit = strings.TrimSpace(g.Commit)
		g.Path = strings.TrimSpace(g.Path)
		g.Checksum = strings.TrimSpace(g.Checksum)
	}
}

func (l *Lockfile) toDisk() lockfileDisk {
	out := lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
	}
	if g := l.Grammar; g != nil {
		out.Grammar = &lockfileGrammar{
			Source:   g.Source,
			Revision: g.Revision,
			Commit:   g.Commit,
			Path:     g.Path,
			Checksum: g.Checksum,
		}
	}
	return out
}

type lockfileDisk struct {
	Root      string           `yaml:"root"`
	Generated string           `yaml:"generated"`
	Tool      string           `yaml:"tool"`
	Grammar   *lockfileGrammar `yaml:"grammar,omitempty"`
}

type lockfileGrammar struct {
	Source   string `yaml:"source"`
	Revision string `yaml:"revision"`
	Commit   string `yaml:"commit"`
	Path     string `yaml:"path"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      d.Root,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
	}
	if g := d.Grammar; g != nil {
		lock.Grammar = &LockedGrammar{
			Source:   g.Source,
			Revision: g.Revision,
			Commit:   g.Commit,
			Path:     g.Path,
			Checksum: g.Checksum,
		}
	}
	lock.normalize()
	return lock
}
