package catalog

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frizerski/booking-api/internal/middleware"
	"github.com/frizerski/booking-api/internal/pkg/jwt"
)

func TestCreateRejectsOffGridDuration(t *testing.T) {
	jwtSvc := jwt.NewService("catalog-test", time.Hour)
	router := NewHandler(NewManager(newFakeRepo(), fakeStylists{})).Routes(middleware.Auth(jwtSvc))
	token, _ := jwtSvc.GenerateAccessToken(1, "admin", "admin")

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"name":"Brijanje","duration_minutes":45}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPublicReadsAndProtectedWrites(t *testing.T) {
	jwtSvc := jwt.NewService("catalog-test", time.Hour)
	router := NewHandler(NewManager(newFakeRepo(), fakeStylists{})).Routes(middleware.Auth(jwtSvc))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/7", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("GET /7: expected 404, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/7", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("DELETE without token: expected 401, got %d", rr.Code)
	}
}
