package appointment

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frizerski/booking-api/internal/domain/schedule"
	"github.com/frizerski/booking-api/internal/middleware"
	"github.com/frizerski/booking-api/internal/pkg/jwt"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testEnv struct {
	router http.Handler
	repo   *fakeRepo
	admin  string
	user   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	svc, repo, _ := newFixture()
	jwtSvc := jwt.NewService("appointment-test", time.Hour)
	h := NewHandler(svc, nil, nil)

	admin, err := jwtSvc.GenerateAccessToken(1, "admin", "admin")
	if err != nil {
		t.Fatal(err)
	}
	user, err := jwtSvc.GenerateAccessToken(2, "kupac", "user")
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{
		router: h.Routes(middleware.Auth(jwtSvc), nil),
		repo:   repo,
		admin:  admin,
		user:   user,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	var resp apiResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	return rr, resp
}

func bookingBody(stylistID, serviceID int64, tm string) BookingRequest {
	return BookingRequest{
		ServiceID:    serviceID,
		StylistID:    stylistID,
		Date:         testDate,
		Time:         tm,
		CustomerName: "Jelena",
		Phone:        "+385 91 234 5678",
	}
}

func TestAvailableSlotsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	if rr, _ := env.do(t, http.MethodPost, "/", "", bookingBody(1, 60, "10:00")); rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %s", rr.Code, rr.Body.String())
	}

	for _, path := range []string{
		"/available-slots?serviceId=30&stylistId=1&date=" + testDate,
		"/available-slots?serviceId=30&frizerId=1&date=" + testDate,
	} {
		rr, resp := env.do(t, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
		var avail schedule.Availability
		if err := json.Unmarshal(resp.Data, &avail); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !contains(avail.OccupiedSlots, "10:00") || contains(avail.FreeSlots, "10:00") || !contains(avail.FreeSlots, "09:30") {
			t.Fatalf("%s: unexpected availability %+v", path, avail)
		}
	}
}

func TestAvailableSlotsEmptyListsSerializeAsArrays(t *testing.T) {
	env := newTestEnv(t)
	rr, _ := env.do(t, http.MethodGet, "/available-slots?serviceId=30&stylistId=1&date="+testDate, "", nil)
	if !bytes.Contains(rr.Body.Bytes(), []byte(`"occupiedSlots":[]`)) {
		t.Fatalf("expected empty occupiedSlots array, got %s", rr.Body.String())
	}
}

func TestAvailableSlotsParameterErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"missing all", "/available-slots", http.StatusUnprocessableEntity},
		{"non numeric", "/available-slots?serviceId=x&stylistId=1&date=" + testDate, http.StatusUnprocessableEntity},
		{"bad date", "/available-slots?serviceId=30&stylistId=1&date=2024-13-01", http.StatusUnprocessableEntity},
		{"unknown stylist", "/available-slots?serviceId=30&stylistId=77&date=" + testDate, http.StatusNotFound},
		{"unknown service", "/available-slots?serviceId=77&stylistId=1&date=" + testDate, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := env.do(t, http.MethodGet, tt.path, "", nil)
			if rr.Code != tt.code {
				t.Fatalf("expected %d, got %d %s", tt.code, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCreateConflictReturnsSlotUnavailable(t *testing.T) {
	env := newTestEnv(t)

	rr, resp := env.do(t, http.MethodPost, "/", "", bookingBody(1, 60, "10:00"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var created Response
	json.Unmarshal(resp.Data, &created)
	if created.EndTime != "11:00" || created.ServiceName != "Haircut" {
		t.Fatalf("unexpected response: %+v", created)
	}

	rr, resp = env.do(t, http.MethodPost, "/", "", bookingBody(1, 30, "10:30"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != "SLOT_UNAVAILABLE" {
		t.Fatalf("expected SLOT_UNAVAILABLE, got %s", rr.Body.String())
	}
}

func TestCreateValidationDetails(t *testing.T) {
	env := newTestEnv(t)

	rr, resp := env.do(t, http.MethodPost, "/", "", bookingBody(1, 30, "10:15"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if _, ok := resp.Error.Details["time"]; !ok {
		t.Fatalf("expected time detail, got %+v", resp.Error.Details)
	}

	rr, _ = env.do(t, http.MethodPost, "/", "", "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rr.Code)
	}

	rr, resp = env.do(t, http.MethodPost, "/", "", bookingBody(1, 7, "10:00"))
	if rr.Code != http.StatusUnprocessableEntity || resp.Error.Details["service_id"] == "" {
		t.Fatalf("service of another stylist: expected 422 service_id, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateAndDeleteRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	rr, resp := env.do(t, http.MethodPost, "/", "", bookingBody(1, 60, "10:00"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d", rr.Code)
	}
	var created Response
	json.Unmarshal(resp.Data, &created)
	path := "/" + itoa(created.ID)

	if rr, _ := env.do(t, http.MethodPut, path, "", bookingBody(1, 60, "10:30")); rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous update: expected 401, got %d", rr.Code)
	}
	if rr, _ := env.do(t, http.MethodPut, path, env.user, bookingBody(1, 60, "10:30")); rr.Code != http.StatusForbidden {
		t.Fatalf("user update: expected 403, got %d", rr.Code)
	}
	rr, resp = env.do(t, http.MethodPut, path, env.admin, bookingBody(1, 60, "10:30"))
	if rr.Code != http.StatusOK {
		t.Fatalf("admin update: expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	var updated Response
	json.Unmarshal(resp.Data, &updated)
	if updated.Time != "10:30" || updated.EndTime != "11:30" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if rr, _ := env.do(t, http.MethodDelete, path, env.user, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("user delete: expected 403, got %d", rr.Code)
	}
	rr, resp = env.do(t, http.MethodDelete, path, env.admin, nil)
	if rr.Code != http.StatusOK || string(resp.Data) != "true" {
		t.Fatalf("admin delete: expected 200 true, got %d %s", rr.Code, rr.Body.String())
	}
	if rr, _ := env.do(t, http.MethodDelete, path, env.admin, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: expected 404, got %d", rr.Code)
	}
	if rr, _ := env.do(t, http.MethodPut, path, env.admin, bookingBody(1, 60, "10:30")); rr.Code != http.StatusNotFound {
		t.Fatalf("update deleted: expected 404, got %d", rr.Code)
	}
}

func TestListingNeedsAuth(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/", "", bookingBody(1, 30, "09:00"))
	env.do(t, http.MethodPost, "/", "", bookingBody(3, 30, "09:00"))

	if rr, _ := env.do(t, http.MethodGet, "/", "", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	rr, resp := env.do(t, http.MethodGet, "/", env.user, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var items []Response
	json.Unmarshal(resp.Data, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(items))
	}

	rr, resp = env.do(t, http.MethodGet, "/date/"+testDate+"?stylistId=3", env.user, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	json.Unmarshal(resp.Data, &items)
	if len(items) != 1 || items[0].StylistName != "Ivana" {
		t.Fatalf("unexpected day listing: %+v", items)
	}

	if rr, _ := env.do(t, http.MethodGet, "/999", env.user, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr, _ := env.do(t, http.MethodGet, "/abc", env.user, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestStorageErrorIs500(t *testing.T) {
	env := newTestEnv(t)
	env.repo.failWith = storageErr("list booked", errors.New("connection reset"))

	rr, resp := env.do(t, http.MethodGet, "/available-slots?serviceId=30&stylistId=1&date="+testDate, "", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR, got %s", rr.Body.String())
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("connection reset")) {
		t.Fatal("driver error must not leak to clients")
	}
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
