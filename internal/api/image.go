package api

import (
	"net/url"
	"strings"
)

// ImageURL returns the URL to load an image from. TikTok CDN hosts refuse
// cross-origin loads, so those go through the backend proxy at origin;
// everything else is used unmodified. An empty src yields "" and the
// caller renders a placeholder.
func ImageURL(origin, src string) string {
	if src == "" {
		return ""
	}
	u, err := url.Parse(src)
	if err != nil || !strings.Contains(strings.ToLower(u.Hostname()), "tiktokcdn") {
		return src
	}
	return strings.TrimRight(origin, "/") + "/api/images/proxy?url=" + url.QueryEscape(src)
}
