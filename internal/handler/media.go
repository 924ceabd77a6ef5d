package handler

import (
	"net/http"
	"strings"
)

// mediaResolver turns stored media paths into absolute URLs.
type mediaResolver struct {
	base string
}

// url returns nil for an empty path. Absolute URLs are returned as is;
// relative paths are joined to the media base, and a relative base is
// prefixed with the request's scheme and host.
func (m mediaResolver) url(r *http.Request, path string) *string {
	if path == "" {
		return nil
	}
	if isAbsolute(path) {
		return &path
	}

	u := joinPath(m.base, path)
	if !isAbsolute(u) {
		u = requestOrigin(r) + u
	}
	return &u
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}

func joinPath(base, path string) string {
	if base == "" {
		base = "/"
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// requestOrigin is scheme://host of r. X-Forwarded-Proto is honoured for
// deployments behind a TLS-terminating proxy.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
