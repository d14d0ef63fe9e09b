package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const callerKey ctxKey = "caller"

// echoRequestID returns the id assigned by middleware.RequestID to the client.
func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(common.RequestIDHeaderName, id)
		}
		next.ServeHTTP(w, r)
	})
}

func requestIDFrom(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info(r.Context(), "request",
			"request_id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// authenticate resolves the bearer token into the calling user.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, "Not authenticated")
			return
		}

		caller, err := s.users.ResolveCaller(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrorNotFound) {
				s.logger.Debug(r.Context(), "rejected bearer token", "error", err)
				writeUnauthorized(w, "Could not validate credentials")
				return
			}
			s.internalError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func callerFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(callerKey).(*models.User)
	return u
}
