package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRelPath(t *testing.T) {
	assert.Equal(t, "a/b/c.go", NormalizeRelPath(`a\b\c.go`))
	assert.Equal(t, "a/b/c.go", NormalizeRelPath("a/b/c.go"))
}

func TestAnyGlobMatch(t *testing.T) {
	assert.True(t, AnyGlobMatch("secrets/id_rsa", []string{"**/id_rsa"}))
	assert.True(t, AnyGlobMatch("id_rsa", []string{"**/id_rsa"}))
	assert.False(t, AnyGlobMatch("fixtures/id_rsa_pub", []string{"**/id_rsa"}))
}

func TestIsPathIncluded(t *testing.T) {
	// empty include => include unless excluded
	assert.True(t, IsPathIncluded("app.go", nil, nil))
	assert.False(t, IsPathIncluded("vendor/lib.go", nil, []string{"vendor/**"}))

	// non-empty include must match
	assert.True(t, IsPathIncluded("config/app.ini", []string{"config/**"}, nil))
	assert.False(t, IsPathIncluded("src/app.go", []string{"config/**"}, nil))

	// exclude wins over include
	assert.False(t, IsPathIncluded("config/ignored.ini", []string{"config/**"}, []string{"**/ignored.ini"}))
}

func TestCacheCompileCaseInsensitive(t *testing.T) {
	c := NewCache()
	rx, err := c.Compile("AKIA[0-9A-Z]{16}", false)
	assert.NoError(t, err)
	assert.True(t, rx.MatchString("akia0123456789abcdef"))
}

func TestCacheCompileMultilineDotAll(t *testing.T) {
	c := NewCache()
	rx, err := c.Compile("start.*end", true)
	assert.NoError(t, err)
	assert.True(t, rx.MatchString("start\nmiddle\nend"))
}

func TestCacheReusesCompiledPattern(t *testing.T) {
	c := NewCache()
	a, err := c.Compile("foo", false)
	assert.NoError(t, err)
	b, err := c.Compile("foo", false)
	assert.NoError(t, err)
	assert.Same(t, a, b)
}

func TestCacheInvalidPattern(t *testing.T) {
	c := NewCache()
	_, err := c.Compile("(unterminated", false)
	assert.Error(t, err)
}
