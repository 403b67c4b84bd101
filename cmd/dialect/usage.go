package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  dialect [--grammar FILE] [--trace] <file>")
	fmt.Fprintln(os.Stderr, "  dialect [--grammar FILE] [--trace] run [target|file]")
	fmt.Fprintln(os.Stderr, "  dialect [--grammar FILE] check [target|file]")
	fmt.Fprintln(os.Stderr, "  dialect [--grammar FILE] grammar")
	fmt.Fprintln(os.Stderr, "  dialect test [paths]")
	fmt.Fprintln(os.Stderr, "  dialect deps install")
	fmt.Fprintln(os.Stderr, "  dialect deps update")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment:")
	fmt.Fprintln(os.Stderr, "  DIALECT_HOME     cache directory for fetched grammars (default ~/.dialect)")
	fmt.Fprintln(os.Stderr, "  DIALECT_GRAMMAR  grammar file used when neither --grammar nor dialect.yml names one")
	fmt.Fprintln(os.Stderr, "  NO_COLOR         disable coloured diagnostics")
}
