package api

import "strings"

// AbsoluteImageURL rewrites a backend-supplied image path into a URL a
// browser could actually load. Absolute, data: and blob: URLs pass through;
// everything else is cleaned up (backslashes, public/ prefixes) and joined to
// the backend origin.
func (c *Client) AbsoluteImageURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}

	low := strings.ToLower(u)
	if strings.HasPrefix(low, "http://") ||
		strings.HasPrefix(low, "https://") ||
		strings.HasPrefix(u, "//") ||
		strings.HasPrefix(low, "data:") ||
		strings.HasPrefix(low, "blob:") {
		return u
	}

	u = strings.ReplaceAll(u, `\`, "/")
	u = strings.TrimPrefix(u, "./")
	u = strings.TrimLeft(u, "/")
	u = strings.TrimPrefix(u, "public/")
	for strings.Contains(u, "//") {
		u = strings.ReplaceAll(u, "//", "/")
	}

	return c.origin + "/" + u
}
