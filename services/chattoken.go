package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const chatTokenExpiry = 24 * time.Hour

// ChatTokenService signs user tokens for the hosted chat provider
type ChatTokenService struct {
	apiKey    string
	apiSecret []byte
	now       func() time.Time
}

type ChatTokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewChatTokenService(apiKey, apiSecret string) *ChatTokenService {
	return &ChatTokenService{apiKey: apiKey, apiSecret: []byte(apiSecret), now: time.Now}
}

func (s *ChatTokenService) Configured() bool {
	return s.apiKey != "" && len(s.apiSecret) > 0
}

func (s *ChatTokenService) Token(userID string) (string, error) {
	if !s.Configured() {
		return "", ErrChatUnavailable
	}
	now := s.now()
	claims := ChatTokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(chatTokenExpiry)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.apiSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign chat token: %w", err)
	}
	return signed, nil
}

func (s *ChatTokenService) RegisterRoutes(r chi.Router) {
	r.Get("/chat/token", s.TokenHandler)
}

func (s *ChatTokenService) TokenHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	token, err := s.Token(user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"user_id": user.ID,
		"api_key": s.apiKey,
	})
}
