package trend

import (
	"regexp"
	"strings"
)

var profileURLPattern = regexp.MustCompile(`tiktok\.com/@([^/?]+)`)

// ExtractHandle normalizes free-form input (profile URL, @handle or bare
// handle) into a handle. It never fails; an empty result is the caller's
// validation problem.
func ExtractHandle(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if m := profileURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}

	if strings.HasPrefix(trimmed, "@") {
		return trimmed[1:]
	}

	return trimmed
}
