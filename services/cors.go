package services

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"
)

// parseOrigins splits a comma separated origin list, dropping blanks
func parseOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, strings.TrimRight(origin, "/"))
		}
	}
	return origins
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// CORS builds the cross-origin middleware for the configured origins. Listed
// origins may send credentials; "*" opens the API to any origin without them.
// An empty list adds no CORS headers at all.
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	origins := parseOrigins(allowedOrigins)
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	wildcard := slices.Contains(origins, "*")
	if wildcard {
		slog.Warn("CORS allows any origin, credentialed requests are disabled")
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}
