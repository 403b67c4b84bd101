package main

import (
	"fmt"
	"os"
	"time"

	"dialect/pkg/driver"
)

// runTest runs every fixture directory found under the given paths (default: the
// working directory).
func runTest(args []string, opts globalOptions) int {
	if opts.grammarPath != "" || opts.trace {
		printWarning("dialect test ignores --grammar and --trace; fixtures name their own grammar")
	}
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			printError("dialect test: %v", err)
			return exitUsage
		}
	}

	dirs, err := driver.CollectFixtures(roots...)
	if err != nil {
		printError("dialect test: %v", err)
		return exitUsage
	}
	if len(dirs) == 0 {
		fmt.Fprintln(os.Stdout, "dialect test: no fixtures found")
		return 0
	}

	cache, err := driver.NewGrammarCache(driver.DefaultGrammarCacheSize)
	if err != nil {
		printError("dialect test: %v", err)
		return exitUsage
	}

	start := time.Now()
	passed, failed := 0, 0
	for _, dir := range dirs {
		fixture, err := driver.LoadFixture(dir)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stdout, "%s %s: %v\n", failLabel.Sprint("FAIL"), dir, err)
			continue
		}
		result := driver.RunFixture(fixture, cache)
		if result.Passed() {
			passed++
			fmt.Fprintf(os.Stdout, "%s %s\n", passLabel.Sprint("PASS"), fixture.Name)
			if result.UnreadStdin > 0 {
				printWarning("%s: %d stdin line(s) never read", fixture.Name, result.UnreadStdin)
			}
			continue
		}
		failed++
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", failLabel.Sprint("FAIL"), fixture.Name, result.Mismatch)
	}

	hits, misses := cache.Stats()
	fmt.Fprintf(os.Stdout, "\n%d passed, %d failed (%s; grammars parsed %d, reused %d)\n",
		passed, failed, time.Since(start).Round(time.Millisecond), misses, hits)
	if failed > 0 {
		return 1
	}
	return 0
}
