package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dialect/pkg/driver"
)

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	manifestPath, err := driver.FindManifest(absStart)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	// Support forward/backward slashes regardless of host OS.
	if strings.ContainsAny(arg, `/\`) || strings.Contains(arg, string(os.PathSeparator)) {
		return true
	}
	if filepath.Ext(arg) != "" {
		return true
	}
	return strings.HasPrefix(arg, ".")
}

func resolveDialectHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("DIALECT_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve DIALECT_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".dialect"), nil
}

// grammarCheckoutDir is where a locked git grammar lives inside DIALECT_HOME.
func grammarCheckoutDir(cacheDir, source, commit string) string {
	return filepath.Join(cacheDir, "grammars", sanitizePathSegment(source), sanitizePathSegment(commit))
}
