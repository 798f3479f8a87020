// Package matcher provides path normalization, glob matching, and a
// bounded, concurrency-safe cache of compiled regular expressions shared
// across a scan.
package matcher

import (
	"regexp"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

const regexCacheSize = 512

// NormalizeRelPath converts backslashes to forward slashes so glob and
// rule matching is platform-independent.
func NormalizeRelPath(rel string) string {
	return strings.ReplaceAll(rel, "\\", "/")
}

// AnyGlobMatch reports whether rel matches at least one of globs. Matching
// is POSIX-shell style via doublestar, case-sensitive.
func AnyGlobMatch(rel string, globs []string) bool {
	rp := NormalizeRelPath(rel)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rp); ok {
			return true
		}
	}
	return false
}

// IsPathIncluded applies include/exclude glob lists to rel. An empty
// include list means "include unless excluded".
func IsPathIncluded(rel string, include, exclude []string) bool {
	rp := NormalizeRelPath(rel)
	if len(exclude) > 0 && AnyGlobMatch(rp, exclude) {
		return false
	}
	if len(include) == 0 {
		return true
	}
	return AnyGlobMatch(rp, include)
}

// regexFlags identifies a compile variant: case-insensitive is always on;
// multiline/dot-all are added per rule.
type regexFlags struct {
	pattern   string
	multiline bool
}

// Cache is a bounded, concurrency-safe cache of compiled regular
// expressions keyed by (pattern, flags). Zero value is not usable; use
// NewCache.
type Cache struct {
	mu    sync.Mutex
	inner *lru.Cache[regexFlags, *regexp.Regexp]
}

// NewCache creates a regex cache bounded at the standard size.
func NewCache() *Cache {
	inner, err := lru.New[regexFlags, *regexp.Regexp](regexCacheSize)
	if err != nil {
		// Only occurs for a non-positive size, which regexCacheSize never is.
		panic(err)
	}
	return &Cache{inner: inner}
}

// Compile returns a cached, compiled, case-insensitive regexp for pattern.
// When multiline is true, multiline and dot-all flags are also applied.
func (c *Cache) Compile(pattern string, multiline bool) (*regexp.Regexp, error) {
	key := regexFlags{pattern: pattern, multiline: multiline}

	c.mu.Lock()
	if rx, ok := c.inner.Get(key); ok {
		c.mu.Unlock()
		return rx, nil
	}
	c.mu.Unlock()

	prefix := "(?i)"
	if multiline {
		prefix = "(?ims)"
	}
	rx, err := regexp.Compile(prefix + pattern)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.inner.Add(key, rx)
	c.mu.Unlock()
	return rx, nil
}
