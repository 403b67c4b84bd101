package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dialect/pkg/driver"
	"dialect/pkg/interpreter"
)

type executionMode int

const (
	modeRun executionMode = iota
	modeCheck
)

func modeCommandLabel(mode executionMode) string {
	switch mode {
	case modeCheck:
		return "dialect check"
	default:
		return "dialect run"
	}
}

func runEntry(args []string, opts globalOptions) int {
	return runEntryWithMode(args, opts, modeRun)
}

func runCheck(args []string, opts globalOptions) int {
	return runEntryWithMode(args, opts, modeCheck)
}

func runEntryWithMode(args []string, opts globalOptions, mode executionMode) int {
	if len(args) > 1 {
		printError("%s: unexpected arguments: %s", modeCommandLabel(mode), strings.Join(args[1:], " "))
		return exitUsage
	}
	entryPath, manifest, err := resolveEntryPath(args)
	if err != nil {
		printError("%s: %v", modeCommandLabel(mode), err)
		return exitUsage
	}
	table, _, err := resolveGrammar(opts, manifest)
	if err != nil {
		printError("%v", err)
		return exitUsage
	}
	source, err := os.ReadFile(entryPath)
	if err != nil {
		printError("read %s: %v", entryPath, err)
		return exitUsage
	}

	reporter := interpreter.Reporter{Out: os.Stdout}
	if mode == modeCheck {
		if err := interpreter.Check(string(source), table); err != nil {
			return reporter.Report(err)
		}
		fmt.Fprintf(os.Stderr, "%s: ok\n", entryPath)
		return 0
	}

	runOpts := interpreter.Options{
		Input:  interpreter.NewReaderInput(os.Stdin),
		Output: os.Stdout,
	}
	if opts.trace {
		runOpts.Trace = os.Stderr
	}
	interp := interpreter.New(table, runOpts)
	return reporter.Report(interp.Run(string(source)))
}

// resolveEntryPath maps the optional argument to a source file: an explicit path, a
// manifest target name, or the manifest's default target.
func resolveEntryPath(args []string) (string, *driver.Manifest, error) {
	if len(args) == 1 {
		arg := args[0]
		if looksLikePathCandidate(arg) || fileExists(arg) {
			path, err := filepath.Abs(arg)
			if err != nil {
				return "", nil, err
			}
			manifest, err := loadManifestFrom(filepath.Dir(path))
			if err != nil {
				if !errors.Is(err, driver.ErrManifestNotFound) {
					printWarning("unable to load manifest (%v); falling back to direct file execution", err)
				}
				manifest = nil
			}
			return path, manifest, nil
		}
	}

	manifest, err := loadManifestFrom(".")
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			if len(args) == 1 {
				return "", nil, fmt.Errorf("%s is neither a file nor a target (no %s found)", args[0], driver.ManifestFileName)
			}
			return "", nil, fmt.Errorf("no source file given and no %s found", driver.ManifestFileName)
		}
		return "", nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	var target *driver.TargetSpec
	if len(args) == 1 {
		var ok bool
		target, ok = manifest.FindTarget(args[0])
		if !ok {
			return "", nil, fmt.Errorf("target %q not found in %s", args[0], manifest.Path)
		}
	} else {
		target, err = manifest.DefaultTarget()
		if err != nil {
			return "", nil, err
		}
	}
	path, err := manifest.ResolveTargetMain(target)
	if err != nil {
		return "", nil, err
	}
	return path, manifest, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
