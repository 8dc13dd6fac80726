package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/app/apiapp"
	"github.com/ivankudzin/matchdeck/internal/config"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

func newTestServer(t *testing.T) (*httptest.Server, *apiapp.App, config.Config) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"
	cfg.Storage.Driver = config.StorageMemory
	cfg.Redis.Addr = mr.Addr()
	cfg.Auth.JWTSecret = "integration-secret"

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })

	ts := httptest.NewServer(app.Handler())
	t.Cleanup(ts.Close)
	return ts, app, cfg
}

func tokenFor(t *testing.T, cfg config.Config, userID string) string {
	t.Helper()
	token, _, err := authsvc.NewJWTManager(cfg.Auth.JWTSecret, time.Minute).GenerateAccessToken(userID, "", "user")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.OK {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestSwipeFlowProducesMatch(t *testing.T) {
	ts, _, cfg := newTestServer(t)

	for _, id := range []string{"u1", "u2", "u3"} {
		resp := do(t, http.MethodPut, ts.URL+"/v1/profile", tokenFor(t, cfg, id), map[string]string{"display_name": strings.ToUpper(id)})
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("put profile %s: unexpected status %d", id, resp.StatusCode)
		}
	}
	u1, u2 := tokenFor(t, cfg, "u1"), tokenFor(t, cfg, "u2")

	resp := do(t, http.MethodGet, ts.URL+"/v1/candidates", u1, nil)
	var candidates struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		t.Fatalf("decode candidates: %v", err)
	}
	resp.Body.Close()
	if len(candidates.Items) != 2 || candidates.Items[0].ID != "u2" {
		t.Fatalf("unexpected candidates: %+v", candidates.Items)
	}

	for _, step := range []struct {
		token  string
		target string
	}{{u1, "u2"}, {u2, "u1"}} {
		resp := do(t, http.MethodPost, ts.URL+"/v1/swipes", step.token, map[string]string{"target_id": step.target, "action": "like"})
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("swipe on %s: unexpected status %d", step.target, resp.StatusCode)
		}
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/matches", u1, nil)
	defer resp.Body.Close()
	var matches struct {
		Items []struct {
			User struct {
				ID          string `json:"id"`
				DisplayName string `json:"display_name"`
			} `json:"user"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		t.Fatalf("decode matches: %v", err)
	}
	if len(matches.Items) != 1 || matches.Items[0].User.ID != "u2" || matches.Items[0].User.DisplayName != "U2" {
		t.Fatalf("unexpected matches: %+v", matches.Items)
	}

	metricsResp := do(t, http.MethodGet, ts.URL+"/metrics", "", nil)
	defer metricsResp.Body.Close()
	raw, err := io.ReadAll(metricsResp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(raw), `matchdeck_swipes_recorded_total{action="like"} 2`) {
		t.Fatalf("expected swipe counter in metrics output:\n%s", raw)
	}
}

func TestV1RoutesRequireToken(t *testing.T) {
	ts, _, _ := newTestServer(t)

	for _, path := range []string{"/v1/profile", "/v1/candidates", "/v1/matches"} {
		resp := do(t, http.MethodGet, ts.URL+path, "", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: unexpected status %d", path, resp.StatusCode)
		}
	}
}
