package validation

import (
	"regexp"
	"strings"
)

// MaxInputLength bounds the chat input forwarded to the model.
const MaxInputLength = 10000

var (
	tableNamePattern  = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	documentIDPattern = regexp.MustCompile(`^[1-9][0-9]*$`)
)

// IsTableName reports whether name is a plain identifier that is safe to turn into a
// reference document file name.
func IsTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// SanitizeTableNames trims names, drops anything that is not a plain identifier and
// removes duplicates while keeping the first occurrence.
func SanitizeTableNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if !IsTableName(n) {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

func IsDocumentID(id string) bool {
	return documentIDPattern.MatchString(strings.TrimSpace(id))
}

// NormalizeInput trims the chat input and cuts it to MaxInputLength runes.
func NormalizeInput(input string) string {
	input = strings.TrimSpace(input)
	r := []rune(input)
	if len(r) > MaxInputLength {
		return string(r[:MaxInputLength])
	}
	return input
}
