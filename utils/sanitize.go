package utils

import "regexp"

const redacted = "[REDACTED]"

var (
	// passwordPattern matches password=xxx, pwd=xxx, pass=xxx up to the next delimiter
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)
	// userInfoPattern matches user:pass@host in URL-style connection strings
	userInfoPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@`)
)

// SanitizeConnectionString removes credentials from a DSN or connection URL.
// Use this before logging any connection string.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+redacted)
	return userInfoPattern.ReplaceAllString(sanitized, "://"+redacted+"@")
}
