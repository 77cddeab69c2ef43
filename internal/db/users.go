package db

import (
	"context"

	"news_publisher/internal/models"
)

// CreateUser сохраняет пользователя и возвращает его с присвоенным id.
// Дубликат имени пользователя или email превращается в ErrConflict.
func (db *Database) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO users (username, password_hash, email, role, agency_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, u.Username, u.PasswordHash, u.Email, u.Role, u.AgencyID).Scan(&u.ID)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}

// GetUser возвращает пользователя по id, ErrNotFound при отсутствии.
func (db *Database) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
        SELECT id, username, password_hash, email, role, agency_id
        FROM users
        WHERE id = $1
    `, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Role, &u.AgencyID)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по имени, ErrNotFound при отсутствии.
// Имя сравнивается точно, без нормализации регистра.
func (db *Database) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
        SELECT id, username, password_hash, email, role, agency_id
        FROM users
        WHERE username = $1
    `, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Role, &u.AgencyID)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}
