package db

import (
	"context"

	"news_publisher/internal/models"
)

// CreateAgency сохраняет агентство, ErrConflict при дубликате названия.
func (db *Database) CreateAgency(ctx context.Context, a models.Agency) (models.Agency, error) {
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO agencies (name, description)
        VALUES ($1, $2)
        RETURNING id
    `, a.Name, a.Description).Scan(&a.ID)
	if err != nil {
		return models.Agency{}, mapError(err)
	}
	return a, nil
}

// ListAgencies возвращает все агентства в порядке создания.
func (db *Database) ListAgencies(ctx context.Context) ([]models.Agency, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, name, description
        FROM agencies
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agencies []models.Agency
	for rows.Next() {
		var a models.Agency
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, err
		}
		agencies = append(agencies, a)
	}
	return agencies, rows.Err()
}

// GetAgency возвращает агентство по id, ErrNotFound при отсутствии.
func (db *Database) GetAgency(ctx context.Context, id int64) (models.Agency, error) {
	var a models.Agency
	err := db.Pool.QueryRow(ctx, `
        SELECT id, name, description
        FROM agencies
        WHERE id = $1
    `, id).Scan(&a.ID, &a.Name, &a.Description)
	if err != nil {
		return models.Agency{}, mapError(err)
	}
	return a, nil
}

// UpdateAgency обновляет переданные поля агентства (nil — без изменений).
// Смена названия на уже занятое превращается в ErrConflict.
func (db *Database) UpdateAgency(ctx context.Context, id int64, name *string, description *string) (models.Agency, error) {
	var a models.Agency
	err := db.Pool.QueryRow(ctx, `
        UPDATE agencies
        SET name = COALESCE($2, name),
            description = COALESCE($3, description)
        WHERE id = $1
        RETURNING id, name, description
    `, id, name, description).Scan(&a.ID, &a.Name, &a.Description)
	if err != nil {
		return models.Agency{}, mapError(err)
	}
	return a, nil
}

// DeleteAgency удаляет агентство, ErrNotFound при отсутствии.
func (db *Database) DeleteAgency(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM agencies WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
