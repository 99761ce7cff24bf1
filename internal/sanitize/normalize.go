package sanitize

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeList trims every element, drops empties, deduplicates preserving
// first-occurrence order, and enforces the item and length caps.
func NormalizeList(items []string, maxItems, maxItemLen int) ([]string, error) {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if len(item) > maxItemLen {
			return nil, fmt.Errorf("list item exceeds %d characters", maxItemLen)
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	if len(out) > maxItems {
		return nil, fmt.Errorf("list exceeds %d items", maxItems)
	}
	return out, nil
}

// TrimRequired trims surrounding whitespace and rejects a field left empty,
// so length rules always apply to the trimmed form.
func TrimRequired(field, s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%s must not be blank", field)
	}
	return trimmed, nil
}

// ValidateURL accepts absolute http/https URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

// ValidateHostURL additionally requires the host to contain domain.
func ValidateHostURL(raw, domain string) error {
	if err := ValidateURL(raw); err != nil {
		return err
	}
	u, _ := url.Parse(raw)
	if !strings.Contains(strings.ToLower(u.Host), domain) {
		return fmt.Errorf("URL host must contain %s", domain)
	}
	return nil
}

// ValidateEmail applies the RFC-5321 length caps and the dot rules the
// address syntax forbids: local part <=64, domain <=253, overall <=254,
// no consecutive dots, no leading or trailing dot in the local part.
func ValidateEmail(addr string) error {
	if len(addr) > 254 {
		return fmt.Errorf("email exceeds 254 characters")
	}
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return fmt.Errorf("invalid email format")
	}
	local, domain := addr[:at], addr[at+1:]
	if len(local) > 64 {
		return fmt.Errorf("email local part exceeds 64 characters")
	}
	if len(domain) > 253 {
		return fmt.Errorf("email domain exceeds 253 characters")
	}
	if strings.Contains(addr, "..") {
		return fmt.Errorf("email must not contain consecutive dots")
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return fmt.Errorf("email local part must not start or end with a dot")
	}
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("email domain must contain a dot")
	}
	return nil
}
