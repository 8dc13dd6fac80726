package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteRateLimitedSetsRetryAfter(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteRateLimited(rr, "TOO_FAST", "slow down", 0)

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("unexpected Retry-After: %q", got)
	}

	var payload RateLimitError
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Code != "TOO_FAST" || payload.RetryAfterSec != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUnauthenticated(t *testing.T) {
	rr := httptest.NewRecorder()
	Unauthenticated(rr, "missing bearer token")

	var payload APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rr.Code != http.StatusUnauthorized || payload.Code != CodeNotAuthenticated {
		t.Fatalf("unexpected response: %d %+v", rr.Code, payload)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %q", ct)
	}
}
