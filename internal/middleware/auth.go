package middleware

import (
	"context"
	"net/http"
	"strings"

	"news_publisher/internal/auth"
	"news_publisher/internal/models"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext возвращает claims аутентифицированного запроса.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// RequireAuth проверяет bearer-токен и, если указаны роли, членство
// роли вызывающего в требуемом наборе; claims кладутся в контекст запроса.
func RequireAuth(authSvc *auth.Service, next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
			return
		}

		claims, err := authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "Недействительный или истёкший токен", http.StatusUnauthorized)
			return
		}

		if err := auth.RequireRole(claims, roles...); err != nil {
			http.Error(w, "Недостаточно прав", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}
