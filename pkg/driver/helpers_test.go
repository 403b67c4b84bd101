package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
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

const originalScopeJSON = `{
  " ": " ",
  ".": ".",
  "\"\"": "\"\"",
  "()": "()",
  "*": "*",
  "/": "/",
  "+": "+",
  "-": "-",
  "#": "#",
  "=": "=",
  "read": "read",
  "print": "print",
  "var_name": "^[a-zA-Z_][a-zA-Z0-9_]*$"
}`
