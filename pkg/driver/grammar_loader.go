// Package driver loads the files around a program: grammar tables, the project
// manifest, the lockfile and fixture descriptions.
package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"dialect/pkg/grammar"
)

// LoadGrammar reads a grammar file. YAML and JSON documents are both accepted since
// JSON is valid YAML.
func LoadGrammar(path string) (*grammar.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("grammar: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("grammar: read %s: %w", abs, err)
	}
	table, err := ParseGrammar(data)
	if err != nil {
		return nil, fmt.Errorf("grammar: parse %s: %w", abs, err)
	}
	return table, nil
}

// ParseGrammar decodes a mapping of key to symbol and validates it.
func ParseGrammar(data []byte) (*grammar.Table, error) {
	var node yaml.Node
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty grammar document")
		}
		return nil, err
	}
	entries, err := grammarEntries(&node)
	if err != nil {
		return nil, err
	}
	return grammar.New(entries)
}

func grammarEntries(node *yaml.Node) (map[string]string, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("grammar must be a mapping of key to symbol")
	}
	entries := make(map[string]string, len(node.Content)/2)
	var errs grammar.ConfigurationError
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return nil, err
		}
		if _, dup := entries[key]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("line %d: key %q given twice", keyNode.Line, key))
			continue
		}
		if valueNode.Kind != yaml.ScalarNode {
			errs.Issues = append(errs.Issues, fmt.Sprintf("line %d: value of %q must be a string", valueNode.Line, key))
			continue
		}
		entries[key] = valueNode.Value
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return entries, nil
}

// DescribeGrammar renders a table as YAML keyed by alias, in table order.
func DescribeGrammar(table *grammar.Table) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range grammar.Keys() {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Value: table.Lookup(k), Style: yaml.DoubleQuotedStyle},
		)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("grammar: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("grammar: encoder close: %w", err)
	}
	return buf.String(), nil
}
