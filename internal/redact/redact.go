// Package redact scrubs contact details and credentials from the free text a
// user writes (assessment notes, profile medical history and goals) so that
// none of it reaches a model prompt.
package redact

import "regexp"

// Placeholder stands in for every scrubbed span.
const Placeholder = "[REDACTED]"

var personalData = []*regexp.Regexp{
	// email
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	// phone: optional country code, then 3-3-4 digits
	regexp.MustCompile(`\+?\d{1,3}?[\s.\-]?\(?\d{3}\)?[\s.\-]\d{3}[\s.\-]\d{4}\b`),
	regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
	// "password: hunter2" and the like, pasted into a note by mistake
	regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|token|password|passwd|credentials)\s*[:=]\s*\S+`),
}

// Redact returns note with each email address, phone number and credential
// replaced by Placeholder. Text with none of them comes back unchanged.
func Redact(note string) string {
	for _, re := range personalData {
		note = re.ReplaceAllLiteralString(note, Placeholder)
	}
	return note
}
