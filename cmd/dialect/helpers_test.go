package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return commitAll(t, repo, dir, "init")
}

func commitAll(t *testing.T, repo *git.Repository, dir, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Dialect CLI",
			Email: "dialect@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	return captureCLIWithInput(t, args, "")
}

// captureCLIWithInput runs the CLI with stdin fed from input and returns the exit code,
// stdout and stderr.
func captureCLIWithInput(t *testing.T, args []string, input string) (int, string, string) {
	t.Helper()

	stdin := os.Stdin
	stdout := os.Stdout
	stderr := os.Stderr

	inPath := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(inPath, []byte(input), 0o644); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	inFile, err := os.Open(inPath)
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	defer inFile.Close()

	outFile, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	if err != nil {
		t.Fatalf("stdout file: %v", err)
	}
	defer outFile.Close()
	errFile, err := os.Create(filepath.Join(t.TempDir(), "stderr"))
	if err != nil {
		t.Fatalf("stderr file: %v", err)
	}
	defer errFile.Close()

	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	os.Stdin = inFile
	os.Stdout = outFile
	os.Stderr = errFile

	code := run(args)

	os.Stdin = stdin
	os.Stdout = stdout
	os.Stderr = stderr

	return code, readBack(t, outFile), readBack(t, errFile)
}

func readBack(t *testing.T, f *os.File) string {
	t.Helper()
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("seek %s: %v", f.Name(), err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read %s: %v", f.Name(), err)
	}
	return string(data)
}

const reskinnedGrammar = `
separator: " "
decimal_point: ","
quotes: "'"
parens: "[]"
multiply: "*"
divide: ":"
add: "+"
subtract: "-"
comment: ";"
assign: "<-"
read: ввести
print: вывести
identifier: '[a-z_]+'
`
