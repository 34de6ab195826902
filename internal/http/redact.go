package http

import "regexp"

var (
	emailRe  = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRe  = regexp.MustCompile(`\+?\d[\d -]{7,}\d`)
	longIDRe = regexp.MustCompile(`\b\d{6,}\b`)
)

// RedactPII masks emails, phone numbers, and long digit runs before text
// reaches the logs. Patient messages are never logged raw.
func RedactPII(text string) string {
	t := emailRe.ReplaceAllString(text, "[REDACTED_EMAIL]")
	t = phoneRe.ReplaceAllString(t, "[REDACTED_PHONE]")
	t = longIDRe.ReplaceAllString(t, "[REDACTED_ID]")
	return t
}
