package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeList(t *testing.T) {
	t.Run("trims and drops empties", func(t *testing.T) {
		out, err := NormalizeList([]string{"  go ", "", "   ", "postgres"}, 10, 50)
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "postgres"}, out)
	})

	t.Run("deduplicates preserving first occurrence", func(t *testing.T) {
		out, err := NormalizeList([]string{"go", "redis", "go", "redis", "gin"}, 10, 50)
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "redis", "gin"}, out)
	})

	t.Run("enforces item count cap", func(t *testing.T) {
		_, err := NormalizeList([]string{"a", "b", "c"}, 2, 50)
		assert.Error(t, err)
	})

	t.Run("cap applies after deduplication", func(t *testing.T) {
		out, err := NormalizeList([]string{"a", "a", "b", "b"}, 2, 50)
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("enforces item length cap", func(t *testing.T) {
		_, err := NormalizeList([]string{"toolong"}, 10, 3)
		assert.Error(t, err)
	})

	t.Run("nil input yields empty list", func(t *testing.T) {
		out, err := NormalizeList(nil, 10, 50)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path?query=1",
		"https://sub.domain.example.com:8443/x",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), u)
	}

	invalid := []string{
		"ftp://example.com",
		"javascript:alert(1)",
		"example.com/no-scheme",
		"https://",
		"not a url at all",
	}
	for _, u := range invalid {
		assert.Error(t, ValidateURL(u), u)
	}
}

func TestValidateHostURL(t *testing.T) {
	assert.NoError(t, ValidateHostURL("https://github.com/august/lab", "github.com"))
	assert.NoError(t, ValidateHostURL("https://GITHUB.COM/august", "github.com"))
	assert.Error(t, ValidateHostURL("https://example.com/august", "github.com"))
	assert.Error(t, ValidateHostURL("ftp://github.com/x", "github.com"))
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@example.com",
		"first.last@sub.example.org",
		"user+tag@example.co",
	}
	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}

	longLocal := make([]byte, 65)
	for i := range longLocal {
		longLocal[i] = 'a'
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user..double@example.com",
		".leading@example.com",
		"trailing.@example.com",
		"user@nodot",
		string(longLocal) + "@example.com",
	}
	for _, e := range invalid {
		assert.Error(t, ValidateEmail(e), e)
	}
}
