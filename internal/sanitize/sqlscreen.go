// Package sanitize normalises request input and rejects syntactic
// SQL-injection shapes before anything reaches the store or the filesystem.
package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInjection marks an input that matched an injection pattern. It is never
// stripped or repaired; the request is rejected as a validation failure.
var ErrInjection = errors.New("input matches a SQL injection pattern")

// Patterns that reject on their own. Matching happens against a normalised
// form: lowercased, block comments replaced by a space, runs of whitespace
// collapsed, so "UN/**/ION SEL/**/ECT" and "union   select" are the same.
var primaryPatterns = []*regexp.Regexp{
	// statement terminator followed by a new statement
	regexp.MustCompile(`;\s*(select|insert|update|delete|drop|create|alter|truncate|exec|execute|union|grant)\b`),
	// classic logical tautologies: ' OR 1=1, ' OR '1'='1 and quoted variants
	regexp.MustCompile(`['"]?\s*(or|and)\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`['"]\s*(or|and)\s+['"][^'"]*['"]\s*=\s*['"]`),
	// UNION-style column leaks
	regexp.MustCompile(`\bunion\s+(all\s+)?select\b`),
	// timing probes
	regexp.MustCompile(`\bsleep\s*\(`),
	regexp.MustCompile(`\bbenchmark\s*\(`),
	regexp.MustCompile(`\bwaitfor\s+delay\b`),
	// file-IO probes
	regexp.MustCompile(`\bload_file\s*\(`),
	regexp.MustCompile(`\binto\s+outfile\b`),
	// comment-only terminators
	regexp.MustCompile(`--\s*$`),
	regexp.MustCompile(`#\s*$`),
}

// Character/encoding probes reject only in combination: with a primary hit,
// or when two or more distinct probe calls appear together.
var encodingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bchar\s*\(`),
	regexp.MustCompile(`\bhex\s*\(`),
	regexp.MustCompile(`\bascii\s*\(`),
	regexp.MustCompile(`\bconcat\s*\(`),
}

var (
	blockComment = regexp.MustCompile(`/\*.*?\*/`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

func normalize(s string) string {
	s = strings.ToLower(s)
	s = blockComment.ReplaceAllString(s, " ")
	s = spaceRun.ReplaceAllString(s, " ")
	return s
}

// Detect reports whether s contains a syntactic SQL-injection shape.
func Detect(s string) bool {
	n := normalize(s)

	primary := false
	for _, p := range primaryPatterns {
		if p.MatchString(n) {
			primary = true
			break
		}
	}
	if primary {
		return true
	}

	probes := 0
	for _, p := range encodingPatterns {
		if p.MatchString(n) {
			probes++
		}
	}
	return probes >= 2
}

// ScreenString screens a single named field.
func ScreenString(field, s string) error {
	if Detect(s) {
		return fmt.Errorf("field %q: %w", field, ErrInjection)
	}
	return nil
}

// ScreenValue walks v recursively. Strings are screened; numbers, booleans
// and nils pass unchanged; maps and slices are descended into with the field
// path extended at each step.
func ScreenValue(field string, v any) error {
	switch val := v.(type) {
	case string:
		return ScreenString(field, val)
	case []string:
		for i, s := range val {
			if err := ScreenString(fmt.Sprintf("%s[%d]", field, i), s); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range val {
			if err := ScreenValue(fmt.Sprintf("%s[%d]", field, i), item); err != nil {
				return err
			}
		}
	case map[string]any:
		for k, item := range val {
			child := k
			if field != "" {
				child = field + "." + k
			}
			if err := ScreenValue(child, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// ScreenFields screens a set of named string fields, returning the offending
// field name alongside the error.
func ScreenFields(fields map[string]string) (string, error) {
	for name, value := range fields {
		if Detect(value) {
			return name, fmt.Errorf("field %q: %w", name, ErrInjection)
		}
	}
	return "", nil
}
