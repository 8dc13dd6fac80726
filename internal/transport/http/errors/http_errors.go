package errors

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const CodeNotAuthenticated = "NOT_AUTHENTICATED"

// APIError is the body of every non-2xx JSON response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RateLimitError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	RetryAfterSec int64  `json:"retry_after_sec"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	Write(w, status, APIError{Code: code, Message: message})
}

func Unauthenticated(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeNotAuthenticated, message)
}

// WriteRateLimited answers 429 and mirrors the wait into Retry-After.
func WriteRateLimited(w http.ResponseWriter, code, message string, retryAfterSec int64) {
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfterSec, 10))
	Write(w, http.StatusTooManyRequests, RateLimitError{
		Code:          code,
		Message:       message,
		RetryAfterSec: retryAfterSec,
	})
}
