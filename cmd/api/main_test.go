package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestReadyHandler(t *testing.T) {
	up := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	t.Run("all dependencies up", func(t *testing.T) {
		rr := httptest.NewRecorder()
		readyHandler(
			readinessCheck{name: "postgres", check: up},
			readinessCheck{name: "redis", check: up},
		).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	})

	t.Run("one dependency down", func(t *testing.T) {
		rr := httptest.NewRecorder()
		readyHandler(
			readinessCheck{name: "postgres", check: up},
			readinessCheck{name: "redis", check: down},
		).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d", rr.Code)
		}

		var body struct {
			Data map[string]string `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Data["postgres"] != "up" || body.Data["redis"] != "down" {
			t.Fatalf("unexpected dependency status: %v", body.Data)
		}
	})
}

func TestReadinessChecks_SkipsRedisWhenDisabled(t *testing.T) {
	checks := readinessChecks(func(ctx context.Context) error { return nil }, nil)
	if len(checks) != 1 || checks[0].name != "postgres" {
		t.Fatalf("expected only the postgres check, got %+v", checks)
	}
}

func TestMountUploads_ServesFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "stylists", "1"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stylists", "1", "a.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	mountUploads(r, dir)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/stylists/1/a.jpg", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != "jpeg" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatal("expected Cache-Control header")
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/missing.jpg", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
