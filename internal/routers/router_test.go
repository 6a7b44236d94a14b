package routers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"slidesync/internal/api"
	"slidesync/internal/auth"
	"slidesync/internal/session"
)

func newTestRouter(t *testing.T) *httptest.Server {
	t.Helper()
	h := api.NewHandlers(zap.NewNop(), session.NewHub(), auth.NewJWTVerifier([]byte("secret")), nil)
	server := httptest.NewServer(New(h, []string{"*"}))
	t.Cleanup(server.Close)
	return server
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestRouter(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("expected ok, got %q", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestRouter(t)

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "slidesync_") {
		t.Fatalf("expected slidesync metrics in output")
	}
}

func TestSnapshotRequiresAuth(t *testing.T) {
	server := newTestRouter(t)

	resp, err := http.Get(server.URL + "/api/v1/sessions/abc123/snapshot")
	if err != nil {
		t.Fatalf("snapshot request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
