package db

import (
	"context"

	"news_publisher/internal/models"
)

// CreateCategory сохраняет категорию, ErrConflict при дубликате названия.
func (db *Database) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO categories (name)
        VALUES ($1)
        RETURNING id
    `, c.Name).Scan(&c.ID)
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return c, nil
}

// ListCategories возвращает все категории в порядке создания.
func (db *Database) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, name
        FROM categories
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory возвращает категорию по id, ErrNotFound при отсутствии.
func (db *Database) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	var c models.Category
	err := db.Pool.QueryRow(ctx, `
        SELECT id, name
        FROM categories
        WHERE id = $1
    `, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return c, nil
}

// UpdateCategory обновляет название категории (nil — без изменений).
// Смена названия на уже занятое превращается в ErrConflict.
func (db *Database) UpdateCategory(ctx context.Context, id int64, name *string) (models.Category, error) {
	var c models.Category
	err := db.Pool.QueryRow(ctx, `
        UPDATE categories
        SET name = COALESCE($2, name)
        WHERE id = $1
        RETURNING id, name
    `, id, name).Scan(&c.ID, &c.Name)
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return c, nil
}

// DeleteCategory удаляет категорию, ErrNotFound при отсутствии.
func (db *Database) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
