package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
)

func TestUserRateLimiterAllow(t *testing.T) {
	limiter := NewUserRateLimiter(60, 2)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	tests := []struct {
		name     string
		userID   string
		advance  time.Duration
		expected bool
	}{
		{name: "first request", userID: "u1", expected: true},
		{name: "burst", userID: "u1", expected: true},
		{name: "bucket empty", userID: "u1", expected: false},
		{name: "other user unaffected", userID: "u2", expected: true},
		{name: "refilled after a second", userID: "u1", advance: time.Second, expected: true},
		{name: "empty again", userID: "u1", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = now.Add(tt.advance)
			if got := limiter.Allow(tt.userID); got != tt.expected {
				t.Errorf("Allow(%q) = %v, expected %v", tt.userID, got, tt.expected)
			}
		})
	}
}

func TestUserRateLimiterMiddleware(t *testing.T) {
	limiter := NewUserRateLimiter(1, 1)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	user := &models.User{ID: "u1", Role: models.RoleStudent}
	codes := []int{http.StatusOK, http.StatusTooManyRequests}
	for i, expected := range codes {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/quizzes", nil)
		req = req.WithContext(WithUser(req.Context(), user))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != expected {
			t.Errorf("request %d: status = %d, expected %d", i, rec.Code, expected)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/quizzes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous request: status = %d, expected %d", rec.Code, http.StatusUnauthorized)
	}
}
