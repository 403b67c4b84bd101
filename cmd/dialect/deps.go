package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"dialect/pkg/driver"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		printError("dialect deps requires a subcommand (install, update)")
		return exitUsage
	}
	if len(args) > 1 {
		printError("dialect deps %s does not take arguments (received %s)", args[0], strings.Join(args[1:], " "))
		return exitUsage
	}
	switch args[0] {
	case "install":
		return runDepsResolve(false)
	case "update":
		return runDepsResolve(true)
	default:
		printError("unknown deps subcommand %q", args[0])
		return exitUsage
	}
}

// runDepsResolve fetches the manifest's git grammar and records it in dialect.lock.
// install reuses the locked commit when the lockfile still matches the manifest;
// update always resolves the manifest's rev, tag or branch again.
func runDepsResolve(update bool) int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			printError("unable to locate %s: %v", driver.ManifestFileName, err)
		} else {
			printError("failed to read manifest: %v", err)
		}
		return exitUsage
	}
	cacheDir, err := resolveDialectHome()
	if err != nil {
		printError("failed to resolve DIALECT_HOME: %v", err)
		return exitUsage
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	if !manifest.Grammar.IsGit() {
		fmt.Fprintln(os.Stdout, "No git grammar declared; nothing to install.")
		return 0
	}

	lockPath := manifest.LockfilePath()
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			printError("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		printError("failed to read lockfile: %v", err)
		return 1
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	pinned := ""
	if !update && lock.Matches(manifest.Grammar) {
		pinned = lock.Grammar.Commit
	}

	fetcher := newGitFetcher(cacheDir)
	locked, err := fetcher.Fetch(manifest.Grammar, pinned)
	if err != nil {
		printError("failed to fetch grammar: %v", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "Grammar: %s@%s (%s)\n", locked.Source, locked.Commit, locked.Path)

	changed := lock.Grammar == nil || *lock.Grammar != *locked
	if !changed && !lockCreated {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lock.Path)
		return 0
	}
	lock.Grammar = locked
	lock.Generated = ""
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		printError("failed to write lockfile: %v", err)
		return 1
	}
	action := "Updated"
	if lockCreated {
		action = "Created"
	}
	fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	return 0
}
