package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NotFound("missing"), http.StatusNotFound},
		{Validation("bad"), http.StatusBadRequest},
		{Conflict("busy"), http.StatusConflict},
		{Unavailable("no employees"), http.StatusServiceUnavailable},
		{Gone("evicted"), http.StatusGone},
		{Internal("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.err.Message, tt.want, got)
		}
	}
}

func TestGetKindFollowsWrappedErrors(t *testing.T) {
	base := Conflict("already ongoing").WithOp("requests.Submit")
	wrapped := fmt.Errorf("submit: %w", base)

	if !Is(wrapped, KindConflict) {
		t.Fatalf("expected wrapped error to report KindConflict, got %v", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain error to report KindUnknown")
	}
	if base.Error() != "requests.Submit: already ongoing" {
		t.Fatalf("unexpected message %q", base.Error())
	}
}
