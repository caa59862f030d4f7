package email

import (
	"regexp"
	"strings"
)

// addressShape matches a basic local@domain form: no whitespace or extra '@',
// and at least one dot in the domain part.
var addressShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValid reports whether addr has a plausible local@domain shape.
// This is a syntactic check only; deliverability is out of scope.
func IsValid(addr string) bool {
	return addressShape.MatchString(addr)
}

// SplitList parses a semicolon-separated address list, trimming whitespace
// and dropping empty and duplicate entries. Duplicates compare
// case-insensitively; the first spelling wins and order is preserved.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ";")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// ValidateList partitions addrs into valid and invalid sets. Callers reject
// the whole action when invalid is non-empty, reporting which addresses failed.
func ValidateList(addrs []string) (valid, invalid []string) {
	for _, a := range addrs {
		if IsValid(a) {
			valid = append(valid, a)
		} else {
			invalid = append(invalid, a)
		}
	}
	return valid, invalid
}
