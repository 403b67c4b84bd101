package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"dialect/pkg/driver"
)

// runGrammar prints the resolved grammar table and its fingerprint.
func runGrammar(args []string, opts globalOptions) int {
	if len(args) > 0 {
		printError("dialect grammar does not take arguments (received %s)", strings.Join(args, " "))
		return exitUsage
	}
	manifest, err := loadManifestFrom(".")
	if err != nil {
		if !errors.Is(err, driver.ErrManifestNotFound) {
			printError("failed to load manifest: %v", err)
			return exitUsage
		}
		manifest = nil
	}
	table, origin, err := resolveGrammar(opts, manifest)
	if err != nil {
		printError("%v", err)
		return exitUsage
	}
	doc, err := driver.DescribeGrammar(table)
	if err != nil {
		printError("%v", err)
		return exitUsage
	}
	fmt.Fprintf(os.Stdout, "# source: %s\n", origin)
	fmt.Fprintf(os.Stdout, "# fingerprint: %s\n", table.Fingerprint())
	fmt.Fprint(os.Stdout, doc)
	return 0
}
