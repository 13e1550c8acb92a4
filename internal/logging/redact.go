package logging

import (
	"errors"
	"regexp"
	"strings"
)

// secretPatterns match credentials that can leak through provider error
// messages and request URLs.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|access[_-]?token|bearer|key)([=:\s]+)["']?([^\s"'&]+)["']?`),
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),  // OpenAI keys
	regexp.MustCompile(`AIza[A-Za-z0-9_-]{30,}`), // Google API keys
}

// MaskCredential keeps the first and last four characters of long values.
func MaskCredential(value string) string {
	if len(value) == 0 {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	if len(value) <= 8 {
		return value[:2] + strings.Repeat("*", len(value)-2)
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// MaskSecrets masks every credential-looking substring of input.
func MaskSecrets(input string) string {
	out := secretPatterns[0].ReplaceAllStringFunc(input, func(match string) string {
		m := secretPatterns[0].FindStringSubmatch(match)
		return m[1] + m[2] + MaskCredential(m[3])
	})
	for _, pattern := range secretPatterns[1:] {
		out = pattern.ReplaceAllStringFunc(out, MaskCredential)
	}
	return out
}

// maskErr returns err with credentials removed from its message.
func maskErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if masked := MaskSecrets(msg); masked != msg {
		return errors.New(masked)
	}
	return err
}
