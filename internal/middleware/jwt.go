package middleware

import (
	"context"
	"net/http"
	"strings"

	"devnovate/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JWTAuth проверяет Bearer-токен и кладёт username и role в контекст.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
				http.Error(w, "Missing access token", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})

			if err != nil || !token.Valid {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен",
					zap.Error(err))
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			username, ok1 := claims["username"].(string)
			role, ok2 := claims["role"].(string)
			if !ok1 || !ok2 {
				logger.WithCtx(r.Context()).Warn("JWTAuth: недопустимый payload",
					zap.Any("claims", claims))
				http.Error(w, "Invalid token payload", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextUsername, username)
			ctx = context.WithValue(ctx, ContextRole, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
