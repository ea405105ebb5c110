package util

import "strings"

// SanitizePostgresText strips null bytes and invalid UTF-8 so page
// bodies can be stored in text columns.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}
	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
