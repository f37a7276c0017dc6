package middleware

import (
	"net/http"
)

func OnlyRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SkipGuards(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			value := r.Context().Value(ContextRole)
			userRole, ok := value.(string)
			if !ok || userRole != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
