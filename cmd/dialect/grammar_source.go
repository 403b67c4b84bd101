package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dialect/pkg/driver"
	"dialect/pkg/grammar"
)

// resolveGrammar picks the grammar table in order: --grammar, the manifest's grammar,
// DIALECT_GRAMMAR, the built-in table. The second result names where it came from.
func resolveGrammar(opts globalOptions, manifest *driver.Manifest) (*grammar.Table, string, error) {
	if opts.grammarPath != "" {
		table, err := driver.LoadGrammar(opts.grammarPath)
		return table, opts.grammarPath, err
	}
	if manifest != nil && manifest.Grammar != nil {
		if !manifest.Grammar.IsGit() {
			path := manifest.GrammarFile()
			table, err := driver.LoadGrammar(path)
			return table, path, err
		}
		path, err := lockedGrammarFile(manifest)
		if err != nil {
			return nil, "", err
		}
		table, err := driver.LoadGrammar(path)
		return table, path, err
	}
	if path := strings.TrimSpace(os.Getenv("DIALECT_GRAMMAR")); path != "" {
		table, err := driver.LoadGrammar(path)
		return table, path, err
	}
	return grammar.Default(), "built-in", nil
}

// lockedGrammarFile locates the checkout recorded in dialect.lock and verifies that the
// grammar file still has the locked checksum.
func lockedGrammarFile(manifest *driver.Manifest) (string, error) {
	lockPath := manifest.LockfilePath()
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s missing for %q; run `dialect deps install`", driver.LockfileName, manifest.Name)
		}
		return "", fmt.Errorf("failed to read lockfile %s: %w", lockPath, err)
	}
	if lock.Root != manifest.Name {
		return "", fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	if !lock.Matches(manifest.Grammar) {
		return "", fmt.Errorf("%s does not match the grammar in %s; run `dialect deps update`", driver.LockfileName, driver.ManifestFileName)
	}
	cacheDir, err := resolveDialectHome()
	if err != nil {
		return "", err
	}
	path := filepath.Join(grammarCheckoutDir(cacheDir, lock.Grammar.Source, lock.Grammar.Commit), filepath.FromSlash(lock.Grammar.Path))
	checksum, err := driver.FileChecksum(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("grammar checkout %s missing; run `dialect deps install`", path)
		}
		return "", err
	}
	if checksum != lock.Grammar.Checksum {
		return "", fmt.Errorf("grammar %s does not match the locked checksum; run `dialect deps update`", path)
	}
	return path, nil
}
