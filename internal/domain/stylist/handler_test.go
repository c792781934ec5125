package stylist

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frizerski/booking-api/internal/middleware"
	"github.com/frizerski/booking-api/internal/pkg/jwt"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, repo Repository) (http.Handler, *jwt.Service) {
	t.Helper()
	jwtSvc := jwt.NewService("stylist-test", time.Hour)
	h := NewHandler(NewService(repo, nil, nil))
	return h.Routes(middleware.Auth(jwtSvc), middleware.OptionalAuth(jwtSvc)), jwtSvc
}

func TestListReturnsActiveStylists(t *testing.T) {
	router, _ := newTestRouter(t, newFakeRepo(&Stylist{Name: "Ana", Active: true}, &Stylist{Name: "Ivan"}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body apiResponse
	json.Unmarshal(rr.Body.Bytes(), &body)
	var items []Response
	if err := json.Unmarshal(body.Data, &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Ana" {
		t.Fatalf("unexpected list: %+v", items)
	}
}

func TestGetInactiveIs404(t *testing.T) {
	router, _ := newTestRouter(t, newFakeRepo(&Stylist{Name: "Ivan"}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/1", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	router, jwtSvc := newTestRouter(t, newFakeRepo())
	body, _ := json.Marshal(CreateRequest{Name: "Petra"})

	userToken, _ := jwtSvc.GenerateAccessToken(2, "kupac", "user")
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("user: expected 403, got %d", rr.Code)
	}

	adminToken, _ := jwtSvc.GenerateAccessToken(1, "admin", "admin")
	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateValidation(t *testing.T) {
	router, jwtSvc := newTestRouter(t, newFakeRepo())
	adminToken, _ := jwtSvc.GenerateAccessToken(1, "admin", "admin")

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"name":""}`)))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestListAllForAdmin(t *testing.T) {
	router, jwtSvc := newTestRouter(t, newFakeRepo(&Stylist{Name: "Ana", Active: true}, &Stylist{Name: "Ivan"}))
	adminToken, _ := jwtSvc.GenerateAccessToken(1, "admin", "admin")

	req := httptest.NewRequest(http.MethodGet, "/?all=true", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var body apiResponse
	json.Unmarshal(rr.Body.Bytes(), &body)
	var items []Response
	json.Unmarshal(body.Data, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 stylists for admin, got %d", len(items))
	}
}
