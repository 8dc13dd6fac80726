package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ivankudzin/matchdeck/internal/repo/memory"
	profilesvc "github.com/ivankudzin/matchdeck/internal/services/profiles"
	"github.com/ivankudzin/matchdeck/internal/transport/http/dto"
)

func TestProfileHandlerUpdateThenGet(t *testing.T) {
	h := NewProfileHandler(profilesvc.NewService(profilesvc.Dependencies{Store: memory.NewProfileStore()}), nil)
	age := 31

	rr := httptest.NewRecorder()
	h.Update(rr, newRequest(t, http.MethodPut, "/v1/profile", "u1", dto.UpdateProfileRequest{
		DisplayName: "Ann",
		Age:         &age,
	}))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected update status: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Get(rr, newRequest(t, http.MethodGet, "/v1/profile", "u1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected get status: %d %s", rr.Code, rr.Body.String())
	}

	var resp dto.ProfileResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "u1" || resp.DisplayName != "Ann" || resp.Age == nil || *resp.Age != 31 {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestProfileHandlerErrors(t *testing.T) {
	h := NewProfileHandler(profilesvc.NewService(profilesvc.Dependencies{Store: memory.NewProfileStore()}), nil)
	young := 16
	badPhoto := "file:///etc/passwd"

	tests := []struct {
		name     string
		req      *http.Request
		call     func(http.ResponseWriter, *http.Request)
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing identity",
			req:      newRequest(t, http.MethodGet, "/v1/profile", "", nil),
			call:     h.Get,
			wantCode: http.StatusUnauthorized,
			wantErr:  "NOT_AUTHENTICATED",
		},
		{
			name:     "unknown profile",
			req:      newRequest(t, http.MethodGet, "/v1/profile", "ghost", nil),
			call:     h.Get,
			wantCode: http.StatusNotFound,
			wantErr:  "PROFILE_NOT_FOUND",
		},
		{
			name:     "minor",
			req:      newRequest(t, http.MethodPut, "/v1/profile", "u1", dto.UpdateProfileRequest{Age: &young}),
			call:     h.Update,
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "AGE_REJECTED",
		},
		{
			name:     "bad photo",
			req:      newRequest(t, http.MethodPut, "/v1/profile", "u1", dto.UpdateProfileRequest{PhotoURL: &badPhoto}),
			call:     h.Update,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "unknown field",
			req:      newRequest(t, http.MethodPut, "/v1/profile", "u1", map[string]any{"zodiac": "leo"}),
			call:     h.Update,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.call(rr, tc.req)
			if rr.Code != tc.wantCode || decodeError(t, rr) != tc.wantErr {
				t.Fatalf("unexpected response: %d %s", rr.Code, rr.Body.String())
			}
		})
	}
}
