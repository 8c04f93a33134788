package faults

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfUnwrapsNestedErrors(t *testing.T) {
	inner := New(KindConflict, "store.insert", errors.New("duplicate key"))
	wrapped := fmt.Errorf("toggle favorite: %w", inner)

	if got := KindOf(wrapped); got != KindConflict {
		t.Errorf("expected conflict through the wrap, got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("unclassified errors default to internal, got %v", got)
	}
	if got := KindOf(nil); got != KindInternal {
		t.Errorf("nil defaults to internal, got %v", got)
	}
}

func TestRetryableKinds(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{KindTimeout, true},
		{KindTransport, true},
		{KindNotFound, false},
		{KindConflict, false},
		{KindGateway, false},
		{KindInternal, false},
	}
	for _, tc := range cases {
		err := New(tc.kind, "op", nil)
		if got := Retryable(err); got != tc.want {
			t.Errorf("Retryable(%v) = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindGateway, http.StatusBadGateway},
		{KindTransport, http.StatusBadGateway},
		{KindTimeout, http.StatusGatewayTimeout},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := New(tc.kind, "op", nil)
		if got := HTTPStatus(err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}
	if got := HTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("unclassified errors map to 500, got %d", got)
	}
}

func TestErrorStringCarriesOpAndCause(t *testing.T) {
	err := New(KindTimeout, "calendar.addEvent", errors.New("context deadline exceeded"))
	msg := err.Error()
	if msg == "" {
		t.Fatal("empty error string")
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Op != "calendar.addEvent" {
		t.Errorf("op not preserved: %v", err)
	}
	if !errors.Is(err, fe.Err) {
		t.Error("cause must unwrap")
	}
}
