package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	passLabel    = color.New(color.FgGreen, color.Bold)
	failLabel    = color.New(color.FgRed, color.Bold)
)

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorLabel.Sprint("error:"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warningLabel.Sprint("warning:"), fmt.Sprintf(format, args...))
}
