package logging

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerWithConfig_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: "warn", Console: true, Out: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message should be written")
	}
}

func TestNewLoggerWithConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "analyzer.log")
	logger := NewLoggerWithConfig(LogConfig{Level: "info", File: true, FilePath: path, MaxSize: 1})
	logger.Info().Msg("to file")
}

func TestFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	scoped := WithCurrency(WithPattern(logger, "Hammer"), "GOLD")
	scoped.Info().Msg("x")
	out := buf.String()
	if !strings.Contains(out, `"pattern":"Hammer"`) || !strings.Contains(out, `"currency":"GOLD"`) {
		t.Errorf("missing fields in %s", out)
	}

	buf.Reset()
	LogAPICall(logger, "POST", "chat/completions", time.Millisecond, errors.New("boom"))
	if !strings.Contains(buf.String(), "API call failed") {
		t.Errorf("expected failure message, got %s", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf).With().Str("request_id", "r1").Logger())

	logger := FromContext(ctx)
	logger.Info().Msg("scoped")
	if !strings.Contains(buf.String(), `"request_id":"r1"`) {
		t.Errorf("expected logger from context, got %s", buf.String())
	}

	nop := FromContext(context.Background())
	if nop.GetLevel() != zerolog.Disabled {
		t.Error("expected a disabled logger when the context has none")
	}
}
