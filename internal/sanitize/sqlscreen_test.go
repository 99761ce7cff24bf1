package sanitize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRejectsInjectionShapes(t *testing.T) {
	malicious := []string{
		"'; DROP TABLE portfolio; --",
		"admin'; DELETE FROM sessions; --",
		"x; SELECT * FROM users",
		"' OR 1=1",
		"\" or 22 = 22",
		"' OR 'a'='a",
		"1 UNION SELECT password FROM users",
		"1 union all select null",
		"UN/**/ION SEL/**/ECT id FROM t",
		"sleep(5)",
		"BENCHMARK(1000000,MD5(1))",
		"1; WAITFOR DELAY '0:0:5'",
		"load_file('/etc/passwd')",
		"1 INTO OUTFILE '/tmp/x'",
		"valid looking --",
		"comment probe #",
		"char(65) concat(a,b)",    // two distinct encoding probes
		"hex(x) ascii(y)",         // two distinct encoding probes
		"char(65); drop table y",  // probe plus primary
		"union\t\nselect version", // whitespace bridge
	}
	for _, input := range malicious {
		assert.True(t, Detect(input), "should reject %q", input)
	}
}

func TestDetectAcceptsNormalText(t *testing.T) {
	benign := []string{
		"",
		"My Portfolio Project",
		"A blog post about databases and SQL tuning",
		"I like to select good tools", // keyword without a trigger shape
		"union membership drive",
		"char(acter) development in fiction", // single probe alone passes
		"use CONCAT for readability",
		"drop me a line",
		"https://github.com/august/lab",
		"C# and F# are languages",
		"score: 10 -- final score follows",
	}
	for _, input := range benign {
		assert.False(t, Detect(input), "should accept %q", input)
	}
}

func TestScreenStringWrapsErrInjection(t *testing.T) {
	err := ScreenString("title", "'; DROP TABLE blog; --")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInjection))
	assert.Contains(t, err.Error(), "title")

	assert.NoError(t, ScreenString("title", "an ordinary title"))
}

func TestScreenValueWalksNestedStructures(t *testing.T) {
	clean := map[string]any{
		"title": "hello",
		"tags":  []any{"go", "postgres"},
		"meta":  map[string]any{"count": 3, "ok": true},
	}
	assert.NoError(t, ScreenValue("", clean))

	dirty := map[string]any{
		"title": "hello",
		"meta":  map[string]any{"note": "1 UNION SELECT secret"},
	}
	err := ScreenValue("", dirty)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInjection))
}

func TestScreenValueScreensStringSlices(t *testing.T) {
	err := ScreenValue("tags", []string{"go", "x' OR 1=1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tags[1]")
}

func TestScreenFieldsReturnsOffendingField(t *testing.T) {
	field, err := ScreenFields(map[string]string{
		"title":   "fine",
		"content": "'; DROP TABLE blog; --",
	})
	require.Error(t, err)
	assert.Equal(t, "content", field)

	field, err = ScreenFields(map[string]string{"title": "fine"})
	assert.NoError(t, err)
	assert.Empty(t, field)
}
