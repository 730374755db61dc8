package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = 0

// userIDFromContext returns the authenticated account ID placed there by
// authMiddleware.
func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// authMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the verified account ID in the request context.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			h.writeError(w, r, common.ErrAuthRequired)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			h.writeError(w, r, common.ErrInvalidToken)
			return
		}

		userID, err := auth.GetUserIDFromToken(tokenString, h.jwtSecret)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
