package auth

import (
	"fmt"

	"news_publisher/internal/models"
)

// RequireRole проверяет, что роль вызывающего входит в требуемый набор.
// Пустой набор означает отсутствие ограничений.
func RequireRole(claims *Claims, required ...models.Role) error {
	if len(required) == 0 {
		return nil
	}
	for _, role := range required {
		if claims.Role == role {
			return nil
		}
	}
	return fmt.Errorf("роль %s не даёт доступа к операции: %w", claims.Role, models.ErrForbidden)
}
