package trend

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is the top-level tab the user searches from.
type Mode int

const (
	ModeTrends Mode = iota
	ModeProfiles
	ModeDeep
)

var modeNames = map[Mode]string{
	ModeTrends:   "trends",
	ModeProfiles: "profiles",
	ModeDeep:     "deep",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return ModeTrends, fmt.Errorf("unknown mode %q (valid: trends, profiles, deep)", s)
}

// SubMode selects what a deep scan targets.
type SubMode string

const (
	SubModeKeywords SubMode = "keywords"
	SubModeUsername SubMode = "username"
)

// ParseSubMode validates a sub-mode name.
func ParseSubMode(s string) (SubMode, error) {
	switch SubMode(strings.ToLower(s)) {
	case SubModeKeywords:
		return SubModeKeywords, nil
	case SubModeUsername:
		return SubModeUsername, nil
	}
	return SubModeKeywords, fmt.Errorf("unknown sub-mode %q (valid: keywords, username)", s)
}

// ClampHours enforces the one-hour minimum rescan interval.
func ClampHours(h int) int {
	if h < 1 {
		return 1
	}
	return h
}

// ClampRescanHours parses user input for the rescan interval. Only the
// leading integer counts ("2.5" and "3h" give 2 and 3); input without one,
// or below one, becomes 1.
func ClampRescanHours(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	h, err := strconv.Atoi(s[:end])
	if err != nil {
		return 1
	}
	return ClampHours(h)
}
