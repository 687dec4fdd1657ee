package info

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jkeller-io/appweave/view"
)

func TestInfoHandler_GetStatus(t *testing.T) {
	handler := NewInfoHandler()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()

	handler.GetStatus(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	payload := decodeProbePayload(t, rr.Body.Bytes())
	if payload.Status != "HEALTHY" {
		t.Fatalf("expected status HEALTHY, got %s", payload.Status)
	}
}

func TestInfoHandler_GetHealthz(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := NewInfoHandler(WithLivenessChecks(func(context.Context) error { return nil }))
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()

		handler.GetHealthz(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}

		payload := decodeProbePayload(t, rr.Body.Bytes())
		if payload.Status != "ok" {
			t.Fatalf("expected status ok, got %s", payload.Status)
		}
	})

	t.Run("failure propagates probe error", func(t *testing.T) {
		sentinel := errors.New("db down")
		handler := NewInfoHandler(WithLivenessChecks(func(context.Context) error { return sentinel }))
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()

		handler.GetHealthz(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
		}

		problem := decodeProblemDetails(t, rr.Body.Bytes())
		if problem.Status != http.StatusServiceUnavailable {
			t.Fatalf("expected problem status %d, got %d", http.StatusServiceUnavailable, problem.Status)
		}
		if !strings.Contains(problem.Detail, sentinel.Error()) {
			t.Fatalf("expected detail to include %q, got %q", sentinel.Error(), problem.Detail)
		}
	})
}

func TestInfoHandler_GetReadyz(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := NewInfoHandler(WithReadinessChecks(func(context.Context) error { return nil }))
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rr := httptest.NewRecorder()

		handler.GetReadyz(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}

		payload := decodeProbePayload(t, rr.Body.Bytes())
		if payload.Status != "ready" {
			t.Fatalf("expected status ready, got %s", payload.Status)
		}
	})

	t.Run("failure propagates probe error", func(t *testing.T) {
		sentinel := errors.New("cache warming")
		handler := NewInfoHandler(WithReadinessChecks(func(context.Context) error { return sentinel }))
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rr := httptest.NewRecorder()

		handler.GetReadyz(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
		}

		problem := decodeProblemDetails(t, rr.Body.Bytes())
		if problem.Status != http.StatusServiceUnavailable {
			t.Fatalf("expected problem status %d, got %d", http.StatusServiceUnavailable, problem.Status)
		}
		if !strings.Contains(problem.Detail, sentinel.Error()) {
			t.Fatalf("expected detail to include %q, got %q", sentinel.Error(), problem.Detail)
		}
	})
}

func TestInfoHandler_GetVersion(t *testing.T) {
	t.Run("uses configured provider", func(t *testing.T) {
		handler := NewInfoHandler(WithInfoProvider(func() any {
			return map[string]string{"commit": "abc123"}
		}))
		req := httptest.NewRequest(http.MethodGet, "/version", nil)
		rr := httptest.NewRecorder()

		handler.GetVersion(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}

		var payload map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode version payload: %v", err)
		}
		if payload["commit"] != "abc123" {
			t.Fatalf("expected commit abc123, got %s", payload["commit"])
		}
	})

	t.Run("falls back to empty map when provider returns nil", func(t *testing.T) {
		handler := NewInfoHandler(WithInfoProvider(func() any { return nil }))
		req := httptest.NewRequest(http.MethodGet, "/version", nil)
		rr := httptest.NewRecorder()

		handler.GetVersion(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}

		var payload map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode version payload: %v", err)
		}
		if len(payload) != 0 {
			t.Fatalf("expected empty payload, got %v", payload)
		}
	})
}

func statusViewFixture(t *testing.T, body string) *view.View {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "status.html"), []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	v, err := view.New("status.html", view.WithRoots(root))
	if err != nil {
		t.Fatalf("failed to build view: %v", err)
	}
	return v
}

func TestInfoHandler_GetStatusHTML(t *testing.T) {
	t.Run("renders view with custom data", func(t *testing.T) {
		called := false
		handler := NewInfoHandler(
			WithBaseURL("https://status.example"),
			WithStatusView(statusViewFixture(t, `{{.BaseURL}}|{{.Value}}`)),
			WithStatusViewData(func(r *http.Request, base string) any {
				called = true
				if base != "https://status.example" {
					t.Fatalf("expected base URL to be forwarded")
				}
				return map[string]string{
					"BaseURL": base,
					"Value":   "custom",
				}
			}),
		)
		req := httptest.NewRequest(http.MethodGet, "/statuspage", nil)
		rr := httptest.NewRecorder()

		handler.GetStatusHTML(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if rr.Header().Get("Content-Type") != "text/html" {
			t.Fatalf("expected text/html content type, got %s", rr.Header().Get("Content-Type"))
		}
		if !called {
			t.Fatal("expected status data provider to be called")
		}
		if strings.TrimSpace(rr.Body.String()) != "https://status.example|custom" {
			t.Fatalf("unexpected body %q", rr.Body.String())
		}
	})

	t.Run("falls back to default data provider", func(t *testing.T) {
		handler := NewInfoHandler(
			WithBaseURL("https://fallback"),
			WithStatusView(statusViewFixture(t, `{{.BaseURL}}`)),
			WithStatusViewData(func(*http.Request, string) any { return nil }),
		)
		req := httptest.NewRequest(http.MethodGet, "/statuspage", nil)
		rr := httptest.NewRecorder()

		handler.GetStatusHTML(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != "https://fallback" {
			t.Fatalf("expected body to use base url, got %q", rr.Body.String())
		}
	})

	t.Run("missing view returns problem response", func(t *testing.T) {
		handler := NewInfoHandler()
		req := httptest.NewRequest(http.MethodGet, "/statuspage", nil)
		rr := httptest.NewRecorder()

		handler.GetStatusHTML(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
		}
		problem := decodeProblemDetails(t, rr.Body.Bytes())
		if !strings.Contains(problem.Detail, "status view not configured") {
			t.Fatalf("unexpected problem detail %q", problem.Detail)
		}
	})

	t.Run("unresolvable view is surfaced", func(t *testing.T) {
		v, err := view.New("missing.html", view.WithRoots(t.TempDir()))
		if err != nil {
			t.Fatalf("failed to build view: %v", err)
		}

		handler := NewInfoHandler(WithStatusView(v))
		req := httptest.NewRequest(http.MethodGet, "/statuspage", nil)
		rr := httptest.NewRecorder()

		handler.GetStatusHTML(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
		}
		problem := decodeProblemDetails(t, rr.Body.Bytes())
		if !strings.Contains(problem.Detail, "missing.html") {
			t.Fatalf("expected detail to mention the view, got %q", problem.Detail)
		}
	})
}
