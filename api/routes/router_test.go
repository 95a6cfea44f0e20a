package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/localizy/localizy-backend/pkg/config"
	"github.com/localizy/localizy-backend/pkg/logger"
)

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(cfg, logg, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)
}

func TestHealthLive(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Localizy-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-Localizy-Env"))
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := testRouter()

	paths := []string{
		"/api/v1/users/me",
		"/api/v1/projects",
		"/api/v1/settings",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, rec.Code)
		}
	}
}

func TestPublicRoutesAreMounted(t *testing.T) {
	router := testRouter()

	// Services are nil in this harness, so mounted routes answer 500 while
	// unmounted paths answer 404.
	req := httptest.NewRequest(http.MethodGet, "/api/public/website-config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code == http.StatusNotFound {
		t.Fatalf("expected website-config route to be mounted")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/public/nope", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
}
