package utils

import (
	"net/url"
	"strings"
)

// IsHTTPURL checks if a URL is an absolute http or https URL with a host
func IsHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// GetDomain returns the host part of a URL
func GetDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// ResolveURL resolves ref against base. Values that cannot be parsed are
// returned unchanged.
func ResolveURL(base, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ref
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return baseURL.ResolveReference(refURL).String()
}
