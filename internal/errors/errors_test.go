package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestServiceErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("upstream 503")
	err := fmt.Errorf("explain: %w", NewServiceError("Hammer", "request failed", cause))

	if !Is(err, ErrService) {
		t.Errorf("expected error to match ErrService")
	}
	if !Is(err, cause) {
		t.Errorf("expected error to unwrap to cause")
	}

	var svcErr *ServiceError
	if !As(err, &svcErr) {
		t.Fatalf("expected *ServiceError in chain")
	}
	if svcErr.Pattern != "Hammer" {
		t.Errorf("expected pattern Hammer, got %s", svcErr.Pattern)
	}
}

func TestValidationErrorIsInvalidInput(t *testing.T) {
	err := NewValidationError("candles", 0, "at least one candle required")
	if !Is(err, ErrInvalidInput) {
		t.Errorf("expected validation error to match ErrInvalidInput")
	}
	want := "validation error: candles (0): at least one candle required"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Errorf("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Errorf("Wrapf(nil) should be nil")
	}
}

func TestDataErrorMessage(t *testing.T) {
	err := NewDataError("favorites", "favoritePatterns", "corrupt payload", errors.New("unexpected EOF"))
	want := "data error [favorites] favoritePatterns: corrupt payload: unexpected EOF"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
