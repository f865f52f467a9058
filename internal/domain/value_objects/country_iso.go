package valueobjects

import "strings"

// ResolveCountryISO returns the upper-cased ISO alpha-2 code, or fallback when
// raw is blank.
func ResolveCountryISO(raw string, fallback string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return strings.ToUpper(strings.TrimSpace(fallback))
	}

	return value
}
