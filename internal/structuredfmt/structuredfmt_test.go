package structuredfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscout/secretscout/internal/types"
)

func TestParseJSONTopLevelOnly(t *testing.T) {
	m, err := ParseJSON(`{"api_key":"secret","nested":{"inner":"value"}}`)
	require.NoError(t, err)
	assert.Equal(t, "secret", m["api_key"])
	assert.Contains(t, m, "nested")
	_, isFlat := m["inner"]
	assert.False(t, isFlat, "nested keys must not be flattened")
}

func TestParseJSONMalformedReturnsError(t *testing.T) {
	_, err := ParseJSON(`{not valid json`)
	assert.Error(t, err)
}

func TestParseYAMLTopLevelOnly(t *testing.T) {
	m, err := ParseYAML("api_key: secret\nnested:\n  inner: value\n")
	require.NoError(t, err)
	assert.Equal(t, "secret", m["api_key"])
	assert.Contains(t, m, "nested")
}

func TestParseTOMLTopLevelOnly(t *testing.T) {
	m, err := ParseTOML("api_key = \"secret\"\n\n[nested]\ninner = \"value\"\n")
	require.NoError(t, err)
	assert.Equal(t, "secret", m["api_key"])
	assert.Contains(t, m, "nested")
}

func TestParseEnvBasics(t *testing.T) {
	text := "# comment\n\nexport API_KEY=\"secret-value\"\nPLAIN=bare\nBROKEN_LINE\n"
	m, err := ParseEnv(text)
	require.NoError(t, err)
	assert.Equal(t, "secret-value", m["API_KEY"])
	assert.Equal(t, "bare", m["PLAIN"])
	assert.NotContains(t, m, "BROKEN_LINE")
}

func TestParseEnvSingleQuotes(t *testing.T) {
	m, err := ParseEnv("TOKEN='abc123'\n")
	require.NoError(t, err)
	assert.Equal(t, "abc123", m["TOKEN"])
}

func TestDefaultRegistryHasAllFormats(t *testing.T) {
	reg := DefaultRegistry()
	for _, format := range []types.StructuredFormat{types.FormatJSON, types.FormatYAML, types.FormatTOML, types.FormatEnv} {
		_, ok := reg[format]
		assert.True(t, ok, "missing parser for %s", format)
	}
}
