package ratelimit

import "strings"

// unrestrictedPaths bypass the limiter entirely.
var unrestrictedPaths = map[string]struct{}{
	"/":             {},
	"/health":       {},
	"/metrics":      {},
	"/docs":         {},
	"/openapi.json": {},
	"/redoc":        {},
}

// ClassifyPath maps a request path to its endpoint class.
func ClassifyPath(method, path string) Class {
	if _, ok := unrestrictedPaths[path]; ok {
		return ClassUnrestricted
	}
	if method == "POST" && strings.TrimSuffix(path, "/") == "/api/auth/login" {
		return ClassLogin
	}
	return ClassGeneral
}
