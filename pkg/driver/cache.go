package driver

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"

	"dialect/pkg/grammar"
)

// DefaultGrammarCacheSize bounds the number of distinct grammar documents kept parsed.
const DefaultGrammarCacheSize = 64

// GrammarCache memoises parsed grammar files by the digest of their contents, so
// fixtures sharing one grammar validate it once.
type GrammarCache struct {
	tables *lru.Cache[string, *grammar.Table]
	hits   int
	misses int
}

func NewGrammarCache(size int) (*GrammarCache, error) {
	if size <= 0 {
		size = DefaultGrammarCacheSize
	}
	tables, err := lru.New[string, *grammar.Table](size)
	if err != nil {
		return nil, fmt.Errorf("grammar cache: %w", err)
	}
	return &GrammarCache{tables: tables}, nil
}

// Load returns the table for the grammar file at path.
func (c *GrammarCache) Load(path string) (*grammar.Table, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("grammar: read %s: %w", abs, err)
	}
	key := Checksum(data)
	if table, ok := c.tables.Get(key); ok {
		c.hits++
		return table, nil
	}
	c.misses++
	table, err := ParseGrammar(data)
	if err != nil {
		return nil, fmt.Errorf("grammar: parse %s: %w", abs, err)
	}
	c.tables.Add(key, table)
	return table, nil
}

// Stats reports cache hits and misses since creation.
func (c *GrammarCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Checksum is the hex blake3 digest of data.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FileChecksum digests the file at path.
func FileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Checksum(data), nil
}
