package util

import (
	"net/url"
	"strings"
)

// IsHTTPOrHTTPSURL returns true if s is a valid URL with scheme "http" or "https" and a non-empty host.
func IsHTTPOrHTTPSURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// JoinURL joins a base URL and a relative path with exactly one slash between them.
func JoinURL(base, path string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if path == "" {
		return base
	}

	return base + "/" + strings.TrimLeft(path, "/")
}

// URLPath returns the path component of rawURL, or "" if it cannot be parsed.
func URLPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	if u.Path == "" {
		return "/"
	}

	return u.Path
}
