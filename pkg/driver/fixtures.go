package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"dialect/pkg/grammar"
	"dialect/pkg/interpreter"
)

const (
	FixtureFileName      = "fixture.yml"
	DefaultFixtureSource = "main.calc"
)

// Fixture describes one program together with its stdin and expected results.
type Fixture struct {
	Dir         string
	Name        string
	Description string
	Source      string
	Grammar     string
	Stdin       []string
	Stdout      []string
	Exit        int
}

type fixtureFile struct {
	Description string   `yaml:"description"`
	Source      string   `yaml:"source"`
	Grammar     string   `yaml:"grammar"`
	Stdin       []string `yaml:"stdin"`
	Stdout      []string `yaml:"stdout"`
	Exit        int      `yaml:"exit"`
}

// LoadFixture reads fixture.yml from dir.
func LoadFixture(dir string) (*Fixture, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("fixture: resolve %s: %w", dir, err)
	}
	path := filepath.Join(abs, FixtureFileName)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: open %s: %w", path, err)
	}
	defer file.Close()

	var raw fixtureFile
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	source := strings.TrimSpace(raw.Source)
	if source == "" {
		source = DefaultFixtureSource
	}
	if raw.Exit < 0 || raw.Exit > interpreter.ExitConfig {
		return nil, fmt.Errorf("fixture: %s: exit must be 0, 1 or 2 (got %d)", path, raw.Exit)
	}
	return &Fixture{
		Dir:         abs,
		Name:        filepath.Base(abs),
		Description: strings.TrimSpace(raw.Description),
		Source:      source,
		Grammar:     strings.TrimSpace(raw.Grammar),
		Stdin:       raw.Stdin,
		Stdout:      raw.Stdout,
		Exit:        raw.Exit,
	}, nil
}

// CollectFixtures finds every directory under the roots holding a fixture.yml, in
// lexical order.
func CollectFixtures(roots ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var dirs []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != FixtureFileName {
				return nil
			}
			dir, err := filepath.Abs(filepath.Dir(path))
			if err != nil {
				return err
			}
			if _, ok := seen[dir]; !ok {
				seen[dir] = struct{}{}
				dirs = append(dirs, dir)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fixture: walk %s: %w", root, err)
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

// FixtureResult is the observed behaviour of one fixture run. UnreadStdin counts the
// stdin lines the program never read; it does not fail the fixture.
type FixtureResult struct {
	Fixture     *Fixture
	Stdout      []string
	Stderr      string
	Exit        int
	Mismatch    string
	UnreadStdin int
}

// Passed reports whether the run matched the expectations.
func (r FixtureResult) Passed() bool {
	return r.Mismatch == ""
}

// RunFixture executes a fixture. Grammar files are resolved through cache when one is
// given.
func RunFixture(f *Fixture, cache *GrammarCache) FixtureResult {
	result := FixtureResult{Fixture: f}

	table := grammar.Default()
	if f.Grammar != "" {
		path := filepath.Join(f.Dir, f.Grammar)
		var err error
		if cache != nil {
			table, err = cache.Load(path)
		} else {
			table, err = LoadGrammar(path)
		}
		if err != nil {
			result.Stderr = err.Error()
			result.Exit = interpreter.ExitConfig
			result.Mismatch = compareFixture(f, result)
			return result
		}
	}

	source, err := os.ReadFile(filepath.Join(f.Dir, f.Source))
	if err != nil {
		result.Stderr = err.Error()
		result.Exit = interpreter.ExitConfig
		result.Mismatch = compareFixture(f, result)
		return result
	}

	var stdout bytes.Buffer
	stdin := interpreter.NewQueuedInput(f.Stdin...)
	interp := interpreter.New(table, interpreter.Options{
		Input:  stdin,
		Output: &stdout,
	})
	runErr := interp.Run(string(source))
	result.Exit = interpreter.Reporter{Out: &stdout}.Report(runErr)
	result.UnreadStdin = stdin.Remaining()
	result.Stdout = splitOutput(stdout.String())
	result.Mismatch = compareFixture(f, result)
	return result
}

func splitOutput(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func compareFixture(f *Fixture, r FixtureResult) string {
	if r.Exit != f.Exit {
		msg := fmt.Sprintf("exit = %d, want %d", r.Exit, f.Exit)
		if r.Stderr != "" {
			msg += " (" + r.Stderr + ")"
		}
		return msg
	}
	if !slices.Equal(r.Stdout, f.Stdout) {
		return fmt.Sprintf("stdout = %q, want %q", r.Stdout, f.Stdout)
	}
	return ""
}
