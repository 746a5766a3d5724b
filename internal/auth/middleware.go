package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/campuslab/campus-events-api/internal/models"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// IdentityMiddleware resolves the caller's identity into the request
// context: an X-API-KEY header first (campus service integrations), then
// the JWT cookie. It never rejects; operations decide for themselves via
// Authorize, which keeps public routes like the OAuth callback working.
func (h *AuthHandler) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey := r.Header.Get("X-API-KEY"); apiKey != "" {
			var keyModel models.APIKey
			if err := h.db.Where("key = ?", apiKey).First(&keyModel).Error; err == nil {
				if keyModel.ExpiresAt != nil && time.Now().After(*keyModel.ExpiresAt) {
					next.ServeHTTP(w, r)
					return
				}

				h.db.Model(&keyModel).Update("last_used_at", time.Now())

				ctx := context.WithValue(r.Context(), UserIDKey, keyModel.UserID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		cookie, err := r.Cookie("auth_token")
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := h.parseToken(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		// Sliding session: reissue the cookie once it passes half-life.
		if refreshed, err := h.refreshIfStale(cookie.Value, userID); err == nil && refreshed != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     "auth_token",
				Value:    refreshed,
				Expires:  time.Now().Add(TokenDuration),
				HttpOnly: true,
				Path:     "/",
			})
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// refreshIfStale returns a replacement token when the current one has less
// than half its duration remaining, empty string otherwise.
func (h *AuthHandler) refreshIfStale(tokenString string, userID uint) (string, error) {
	exp, err := h.tokenExpiry(tokenString)
	if err != nil {
		return "", err
	}
	if time.Until(exp) >= TokenDuration/2 {
		return "", nil
	}
	return h.GenerateToken(userID)
}
