package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"dialect/pkg/driver"
)

type gitFetcher struct {
	cacheDir string
}

func newGitFetcher(cacheDir string) *gitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &gitFetcher{cacheDir: cacheDir}
}

// Fetch checks out the grammar repository at the requested revision (or at pinned, a
// commit taken from the lockfile) and validates the grammar file it contains.
func (g *gitFetcher) Fetch(src *driver.GrammarSource, pinned string) (*driver.LockedGrammar, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(src.Git)
	if url == "" {
		return nil, fmt.Errorf("grammar: git URL required")
	}

	revision := plumbing.Revision(pinned)
	if pinned == "" {
		var err error
		revision, err = gitRevisionFromSource(src)
		if err != nil {
			return nil, err
		}
	}

	baseDir := filepath.Dir(grammarCheckoutDir(g.cacheDir, url, "head"))
	commit, err := ensureGitCheckout(baseDir, url, revision, pinned)
	if err != nil {
		return nil, err
	}

	grammarPath := filepath.Join(baseDir, sanitizePathSegment(commit), filepath.FromSlash(src.Path))
	if _, err := driver.LoadGrammar(grammarPath); err != nil {
		return nil, err
	}
	checksum, err := driver.FileChecksum(grammarPath)
	if err != nil {
		return nil, err
	}
	return &driver.LockedGrammar{
		Source:   url,
		Revision: src.Revision(),
		Commit:   commit,
		Path:     src.Path,
		Checksum: checksum,
	}, nil
}

func ensureGitCheckout(baseDir, url string, revision plumbing.Revision, pinned string) (string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	if pinned != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(pinned))
		if _, err := os.Stat(existing); err == nil {
			return pinned, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	commit := hash.String()
	targetDir := filepath.Join(baseDir, sanitizePathSegment(commit))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return commit, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return commit, nil
}

func gitRevisionFromSource(src *driver.GrammarSource) (plumbing.Revision, error) {
	if rev := strings.TrimSpace(src.Rev); rev != "" {
		return plumbing.Revision(rev), nil
	}
	if tag := strings.TrimSpace(src.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), nil
	}
	if branch := strings.TrimSpace(src.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), nil
	}
	return "", fmt.Errorf("git grammars require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
