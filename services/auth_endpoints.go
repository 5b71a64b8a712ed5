package services

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/krshsl/campusjobs/backend/models"
)

type AuthEndpoints struct {
	authService *AuthService
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authBody is the response of login and signup. Tokens are also set as cookies;
// they are returned in the body for clients that send a bearer header.
type authBody struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	Message     string       `json:"message"`
}

func NewAuthEndpoints(authService *AuthService) *AuthEndpoints {
	return &AuthEndpoints{
		authService: authService,
	}
}

// RegisterRoutes mounts the public auth routes; /me and /logout need the auth middleware
func (e *AuthEndpoints) RegisterRoutes(r chi.Router) {
	r.Post("/login", e.LoginHandler)
	r.Post("/signup", e.SignupHandler)
	r.Post("/refresh", e.RefreshHandler)
	r.Group(func(r chi.Router) {
		r.Use(e.authService.Middleware)
		r.Post("/logout", e.LogoutHandler)
		r.Get("/me", e.MeHandler)
	})
}

func (e *AuthEndpoints) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	authResponse, err := e.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "error", err, "email", req.Email)
		respondError(w, r, err)
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, authResponse.RefreshToken, authResponse.PermanentToken)
	writeJSON(w, http.StatusOK, authBody{
		User:        authResponse.User,
		AccessToken: authResponse.AccessToken,
		Message:     "Login successful",
	})
}

func (e *AuthEndpoints) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	authResponse, err := e.authService.Signup(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, authResponse.RefreshToken, authResponse.PermanentToken)
	writeJSON(w, http.StatusCreated, authBody{
		User:        authResponse.User,
		AccessToken: authResponse.AccessToken,
		Message:     "Signup successful",
	})
}

func (e *AuthEndpoints) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken := e.authService.GetTokenFromCookie(r, "refresh_token")
	if refreshToken == "" {
		respondError(w, r, ErrUnauthenticated)
		return
	}

	authResponse, err := e.authService.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		slog.Warn("Token refresh failed", "error", err)
		respondError(w, r, ErrUnauthenticated)
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, "", "")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": authResponse.AccessToken,
		"message":      "Token refreshed successfully",
	})
}

func (e *AuthEndpoints) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := e.authService.Logout(r.Context(), user.ID); err != nil {
		slog.Error("Logout failed", "error", err, "user_id", user.ID)
		respondError(w, r, err)
		return
	}

	e.authService.ClearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
	})
}

func (e *AuthEndpoints) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}
