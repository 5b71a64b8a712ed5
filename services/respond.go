package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/krshsl/campusjobs/backend/apierror"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// Room for the largest resume with JSON escaping
	maxRequestBodyBytes = 1 << 20
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError writes err as an ApiError body tagged with the chi request id
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierror.FromError(err).WithRequestID(middleware.GetReqID(r.Context()))
	if apiErr.Code >= http.StatusInternalServerError {
		slog.Error("Request failed", "error", err, "path", r.URL.Path, "request_id", apiErr.RequestID)
	} else {
		slog.Warn("Request rejected", "error", err, "status", apiErr.Code, "path", r.URL.Path)
	}
	writeJSON(w, apiErr.Code, apiErr)
}

// decodeJSON reads the body capped by middleware.RequestSize in SetupRoutes
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return invalid("invalid request body")
	}
	return nil
}

// pagination reads limit and offset query parameters, clamping limit to maxPageSize
func pagination(r *http.Request) (int, int) {
	limit := queryInt(r, "limit", defaultPageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
