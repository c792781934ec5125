package verify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func post(router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b)))
	return rr
}

func TestVerifyEndpoints(t *testing.T) {
	sender := &recordingSender{}
	router := NewHandler(NewService(newMemStore(), sender, "pepper")).Routes(nil)

	if rr := post(router, "/send-code", SendCodeRequest{Phone: "abc"}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad phone: expected 422, got %d", rr.Code)
	}
	if rr := post(router, "/send-code", SendCodeRequest{Phone: phone}); rr.Code != http.StatusOK {
		t.Fatalf("send: expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	if rr := post(router, "/send-code", SendCodeRequest{Phone: phone}); rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") == "" {
		t.Fatalf("resend: expected 429 with Retry-After, got %d", rr.Code)
	}

	code := sender.code(t, NormalizePhone(phone))
	wrong := "123456"
	if code == wrong {
		wrong = "654321"
	}

	rr := post(router, "/verify-code", VerifyCodeRequest{Phone: phone, Code: wrong})
	if rr.Code != http.StatusBadRequest || !bytes.Contains(rr.Body.Bytes(), []byte("INVALID_CODE")) {
		t.Fatalf("wrong code: expected 400 INVALID_CODE, got %d %s", rr.Code, rr.Body.String())
	}
	if rr := post(router, "/verify-code", VerifyCodeRequest{Phone: phone, Code: "12"}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("short code: expected 422, got %d", rr.Code)
	}
	if rr := post(router, "/verify-code", VerifyCodeRequest{Phone: phone, Code: code}); rr.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestVerifyWithoutRedisIs503(t *testing.T) {
	router := NewHandler(NewService(nil, &recordingSender{}, "pepper")).Routes(nil)
	if rr := post(router, "/send-code", SendCodeRequest{Phone: phone}); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
