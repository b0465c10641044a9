package validators

import "strings"

// SanitizeString trims surrounding whitespace and truncates free-form user
// input to maxLen bytes. A maxLen of zero disables truncation.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeCode normalizes promo and reference codes: trimmed, truncated and
// uppercased so lookups are case-insensitive.
func SanitizeCode(input string, maxLen int) string {
	return strings.ToUpper(SanitizeString(input, maxLen))
}
