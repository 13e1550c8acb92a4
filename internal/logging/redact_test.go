package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMaskCredential(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"abc":          "***",
		"abcdefg":      "ab*****",
		"abcd12345678": "abcd****5678",
	}
	for in, want := range tests {
		if got := MaskCredential(in); got != want {
			t.Errorf("MaskCredential(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskSecrets(t *testing.T) {
	googleKey := "AIza" + strings.Repeat("x", 35)
	openaiKey := "sk-" + strings.Repeat("y", 40)

	tests := []struct {
		in     string
		secret string
	}{
		{"POST https://host/v1?key=" + googleKey + "&alt=json", googleKey},
		{"error: invalid api_key: " + openaiKey, openaiKey},
		{"Incorrect API key provided: " + openaiKey, openaiKey},
		{"bearer " + openaiKey, openaiKey},
	}
	for _, tt := range tests {
		out := MaskSecrets(tt.in)
		if strings.Contains(out, tt.secret) {
			t.Errorf("secret leaked in %q", out)
		}
	}

	if got := MaskSecrets("request timed out"); got != "request timed out" {
		t.Errorf("plain message changed: %q", got)
	}
}

func TestLogAPICall_MasksErrors(t *testing.T) {
	var buf bytes.Buffer
	key := "sk-" + strings.Repeat("z", 30)

	LogAPICall(zerolog.New(&buf), "POST", "chat/completions", time.Second, errors.New("401: "+key))
	if strings.Contains(buf.String(), key) {
		t.Errorf("API key written to log: %s", buf.String())
	}
}
