package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"podofarma/m/domain"
	"podofarma/m/internal/auth"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// requireAuth resolves the identity from the session cookie once, at the
// request boundary, and rejects the request if the token is absent or invalid.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := h.auth.FromRequest(r)
		if id == nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxIdentity, *id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFrom(r *http.Request) auth.Identity {
	id, _ := r.Context().Value(ctxIdentity).(auth.Identity)
	return id
}

// requireAdmin re-reads the caller's role from the database instead of
// trusting the token, so role changes take effect before the token expires.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	user := identityFrom(r)
	var rol string
	err := h.db.Get(&rol, `SELECT r.nombre FROM usuarios u JOIN roles r ON r.id = u.id_rol WHERE u.id = $1`, user.ID)
	if err != nil || rol != domain.RolAdmin {
		respondError(w, http.StatusForbidden, "Forbidden")
		return false
	}
	return true
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("size", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
