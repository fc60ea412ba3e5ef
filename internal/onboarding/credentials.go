package onboarding

import (
	"strings"
	"unicode"
)

// InitialPassword is the first three non-space characters of the name, upper-cased, plus suffix.
func InitialPassword(fullName, suffix string) string {
	var prefix []rune
	for _, r := range fullName {
		if unicode.IsSpace(r) {
			continue
		}
		prefix = append(prefix, r)
		if len(prefix) == 3 {
			break
		}
	}
	return strings.ToUpper(string(prefix)) + suffix
}

// splitName is used when the submission carries no explicit first/last name.
func splitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
