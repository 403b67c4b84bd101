package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up from the working directory upwards.
const ManifestFileName = "dialect.yml"

// DefaultGrammarFile is the file read from a git grammar source when no path is given.
const DefaultGrammarFile = "grammar.yml"

// Manifest represents the parsed contents of dialect.yml.
type Manifest struct {
	Path        string
	Name        string
	Grammar     *GrammarSource
	Targets     map[string]*TargetSpec
	TargetOrder []string

	targetEntries []manifestTargetEntry
}

// GrammarSource says where the project's grammar table comes from: a local file or a
// file inside a git repository.
type GrammarSource struct {
	File   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// IsGit reports whether the grammar is fetched from a repository.
func (g *GrammarSource) IsGit() bool {
	return g != nil && g.Git != ""
}

// Revision describes the requested pin, e.g. "tag v1". It is recorded in the lockfile so
// a changed pin is noticed.
func (g *GrammarSource) Revision() string {
	switch {
	case g == nil:
		return ""
	case g.Rev != "":
		return "rev " + strings.TrimSpace(g.Rev)
	case g.Tag != "":
		return "tag " + strings.TrimSpace(g.Tag)
	case g.Branch != "":
		return "branch " + strings.TrimSpace(g.Branch)
	default:
		return ""
	}
}

// TargetSpec names one runnable program of the project.
type TargetSpec struct {
	Name         string
	OriginalName string
	Main         string
}

type manifestTargetEntry struct {
	sanitized string
	spec      *TargetSpec
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// ErrManifestNotFound is returned by FindManifest when no dialect.yml exists above the
// start directory.
var ErrManifestNotFound = errors.New("dialect.yml not found")

// ErrNoTarget is returned when a manifest declares no targets.
var ErrNoTarget = errors.New("manifest: no targets defined")

// LoadManifest parses dialect.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks up from start until it finds dialect.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Grammar != nil {
		for _, issue := range m.Grammar.validate() {
			errs.Issues = append(errs.Issues, "grammar: "+issue)
		}
	}

	targetNames := make(map[string]string, len(m.targetEntries))
	for _, entry := range m.targetEntries {
		target := entry.spec
		if target == nil {
			continue
		}
		if other, exists := targetNames[entry.sanitized]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("targets %q and %q collide after sanitization", other, target.OriginalName))
		} else {
			targetNames[entry.sanitized] = target.OriginalName
		}
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main source file", target.OriginalName))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (g *GrammarSource) validate() []string {
	var errs []string
	if g.Git == "" {
		if g.File == "" {
			errs = append(errs, "must specify a file or a git source")
		}
		if g.Rev != "" || g.Tag != "" || g.Branch != "" {
			errs = append(errs, "rev, tag and branch apply only to git sources")
		}
		return errs
	}
	pins := 0
	for _, pin := range []string{g.Rev, g.Tag, g.Branch} {
		if pin != "" {
			pins++
		}
	}
	switch {
	case pins == 0:
		errs = append(errs, "git grammars require rev, tag, or branch")
	case pins > 1:
		errs = append(errs, "git grammars accept only one of rev, tag, or branch")
	}
	if clean := filepath.ToSlash(filepath.Clean(g.Path)); filepath.IsAbs(g.Path) || clean == ".." || strings.HasPrefix(clean, "../") {
		errs = append(errs, fmt.Sprintf("path %q must stay inside the repository", g.Path))
	}
	return errs
}

// DefaultTarget returns the first target in manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil {
		return nil, ErrNoTarget
	}
	for _, entry := range m.targetEntries {
		if entry.spec != nil {
			return entry.spec, nil
		}
	}
	return nil, ErrNoTarget
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	key := sanitizeSegment(name)
	if key != "" {
		if target, ok := m.Targets[key]; ok && target != nil {
			return target, true
		}
	}
	for _, entry := range m.targetEntries {
		if entry.spec != nil && strings.EqualFold(entry.spec.OriginalName, strings.TrimSpace(name)) {
			return entry.spec, true
		}
	}
	return nil, false
}

// ResolveTargetMain returns the target's source path, relative paths being taken from
// the manifest's directory.
func (m *Manifest) ResolveTargetMain(target *TargetSpec) (string, error) {
	if m == nil || target == nil {
		return "", fmt.Errorf("missing manifest or target")
	}
	return m.resolvePath(target.Main), nil
}

// GrammarFile returns the local grammar file named by the manifest, or "" for git
// sources and manifests without a grammar.
func (m *Manifest) GrammarFile() string {
	if m == nil || m.Grammar == nil || m.Grammar.IsGit() {
		return ""
	}
	return m.resolvePath(m.Grammar.File)
}

// LockfilePath is dialect.lock next to the manifest.
func (m *Manifest) LockfilePath() string {
	return filepath.Join(filepath.Dir(m.Path), LockfileName)
}

func (m *Manifest) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(filepath.Dir(m.Path), filepath.FromSlash(p))
}

type manifestFile struct {
	Name    string         `yaml:"name"`
	Grammar *grammarSource `yaml:"grammar"`
	Targets targetMap      `yaml:"targets"`
}

type grammarSource GrammarSource

func (g *grammarSource) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*g = grammarSource{File: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			File   string `yaml:"file"`
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		src := grammarSource{
			File:   strings.TrimSpace(raw.File),
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}
		if src.Git == "" && src.File == "" {
			src.File = src.Path
			src.Path = ""
		}
		if src.Git != "" && src.Path == "" {
			src.Path = DefaultGrammarFile
		}
		*g = src
		return nil
	case yaml.AliasNode:
		return g.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("manifest: grammar must be a path or a mapping, found %s", value.ShortTag())
	}
}

type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	main string
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		var main string
		switch valueNode.Kind {
		case yaml.ScalarNode:
			main = valueNode.Value
		case yaml.MappingNode:
			var entry struct {
				Main string `yaml:"main"`
			}
			if err := valueNode.Decode(&entry); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
			main = entry.Main
		default:
			return fmt.Errorf("manifest: target %q must be a path or a mapping", key)
		}
		items = append(items, targetMapEntry{name: key, main: strings.TrimSpace(main)})
	}
	tm.items = items
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	targetCapacity := len(mf.Targets.items)
	result := &Manifest{
		Path:          path,
		Name:          sanitizeSegment(mf.Name),
		Targets:       make(map[string]*TargetSpec, targetCapacity),
		TargetOrder:   make([]string, 0, targetCapacity),
		targetEntries: make([]manifestTargetEntry, 0, targetCapacity),
	}
	if mf.Grammar != nil {
		src := GrammarSource(*mf.Grammar)
		result.Grammar = &src
	}

	for _, item := range mf.Targets.items {
		sanitized := sanitizeSegment(item.name)
		spec := &TargetSpec{
			Name:         sanitized,
			OriginalName: item.name,
			Main:         item.main,
		}
		if _, exists := result.Targets[sanitized]; !exists {
			result.Targets[sanitized] = spec
			result.TargetOrder = append(result.TargetOrder, sanitized)
		}
		result.targetEntries = append(result.targetEntries, manifestTargetEntry{
			sanitized: sanitized,
			spec:      spec,
		})
	}
	return result
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}
