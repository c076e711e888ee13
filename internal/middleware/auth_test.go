package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/utils"
)

func TestAuthMiddleware(t *testing.T) {
	const secret = "mw-secret"

	var seen utils.Session
	handler := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			t.Error("session missing from context")
		}
		seen = s
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := utils.GenerateSessionToken(utils.Session{Username: "op", BackendToken: "bt"}, secret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Token " + token, http.StatusUnauthorized},
		{"Bearer garbage", http.StatusUnauthorized},
		{"Bearer " + token, http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/prod-headers", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("header %q: got %d, want %d", tc.header, rec.Code, tc.want)
		}
	}

	if seen.Username != "op" || seen.BackendToken != "bt" {
		t.Errorf("unexpected session %+v", seen)
	}
}

func TestAuthMiddlewareQueryToken(t *testing.T) {
	const secret = "mw-secret"
	handler := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	token, _ := utils.GenerateSessionToken(utils.Session{Username: "op"}, secret, time.Hour)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("query token: got %d, want %d", rec.Code, http.StatusNoContent)
	}
}
