package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
	"github.com/ivankudzin/matchdeck/internal/repo/memory"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

func newRequest(t *testing.T, method, target, userID string, body any) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
			UserID: userID,
			Role:   "user",
		}))
	}
	return req
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return payload.Code
}

func seededProfiles(t *testing.T, ids ...string) *memory.ProfileStore {
	t.Helper()

	store := memory.NewProfileStore()
	for _, id := range ids {
		if err := store.Upsert(context.Background(), model.Profile{ID: id, DisplayName: "name-" + id}); err != nil {
			t.Fatalf("seed profile %s: %v", id, err)
		}
	}
	return store
}
