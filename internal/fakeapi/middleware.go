package fakeapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/common"
	"github.com/dmitrijs2005/tiernerd/internal/fakeapi/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

const (
	msgNotAuthenticated = "Not authenticated"
	msgBadCredentials   = "Could not validate credentials"
)

func userIDFrom(ctx context.Context) models.ID {
	id, _ := ctx.Value(userIDKey).(models.ID)
	return id
}

// requireUser rejects requests without a valid bearer token for an existing
// user and stores the user id in the request context.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeader)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, strings.TrimSpace(common.BearerPrefix)) || token == "" {
			unauthorized(w, msgNotAuthenticated)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.logger.Debug(r.Context(), "token rejected", "error", err)
			unauthorized(w, msgBadCredentials)
			return
		}
		if _, err := s.store.UserByID(models.ID(userID)); err != nil {
			unauthorized(w, msgBadCredentials)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, models.ID(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", r.Header.Get(common.RequestIDHeader),
			"duration", time.Since(started),
		)
	})
}
