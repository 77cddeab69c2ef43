package db

import (
	"context"
	"strconv"

	"news_publisher/internal/models"
)

const newsSelect = `
    SELECT n.id, n.title, n.content, n.created_at, n.updated_at, n.published_at,
           n.author_id, n.agency_id, n.category_id,
           u.username, a.name, a.description, c.name
    FROM news n
    JOIN users u ON n.author_id = u.id
    JOIN agencies a ON n.agency_id = a.id
    JOIN categories c ON n.category_id = c.id
`

func scanNews(row interface{ Scan(...any) error }) (models.News, error) {
	var (
		n        models.News
		author   models.User
		agency   models.Agency
		category models.Category
	)
	err := row.Scan(
		&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt, &n.PublishedAt,
		&n.AuthorID, &n.AgencyID, &n.CategoryID,
		&author.Username, &agency.Name, &agency.Description, &category.Name,
	)
	if err != nil {
		return models.News{}, err
	}
	author.ID = n.AuthorID
	agency.ID = n.AgencyID
	category.ID = n.CategoryID
	n.Author = &author
	n.Agency = &agency
	n.Category = &category
	return n, nil
}

// CreateNews сохраняет новость и возвращает её со связанными сущностями.
func (db *Database) CreateNews(ctx context.Context, n models.News) (models.News, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO news (title, content, published_at, author_id, agency_id, category_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, n.Title, n.Content, n.PublishedAt, n.AuthorID, n.AgencyID, n.CategoryID).Scan(&id)
	if err != nil {
		return models.News{}, mapError(err)
	}
	return db.GetNews(ctx, id)
}

// GetNews возвращает новость со связанными сущностями, ErrNotFound при отсутствии.
func (db *Database) GetNews(ctx context.Context, id int64) (models.News, error) {
	row := db.Pool.QueryRow(ctx, newsSelect+` WHERE n.id = $1`, id)
	n, err := scanNews(row)
	if err != nil {
		return models.News{}, mapError(err)
	}
	return n, nil
}

// ListNews возвращает локальные новости по фильтру, сортированные
// по времени публикации по убыванию. Границы дат включительные.
func (db *Database) ListNews(ctx context.Context, filter models.NewsFilter) ([]models.News, error) {
	query := newsSelect
	var (
		conditions []string
		args       []any
	)

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, "n.category_id = $"+strconv.Itoa(len(args)))
	}
	if filter.AgencyID != nil {
		args = append(args, *filter.AgencyID)
		conditions = append(conditions, "n.agency_id = $"+strconv.Itoa(len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, "n.published_at >= $"+strconv.Itoa(len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, "n.published_at <= $"+strconv.Itoa(len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY n.published_at DESC"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var news []models.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		news = append(news, n)
	}
	return news, rows.Err()
}

// UpdateNews применяет частичное обновление: nil-поля остаются нетронутыми.
// Время последнего обновления выставляется сервером БД.
func (db *Database) UpdateNews(ctx context.Context, id int64, patch models.NewsPatch) (models.News, error) {
	tag, err := db.Pool.Exec(ctx, `
        UPDATE news
        SET title = COALESCE($2, title),
            content = COALESCE($3, content),
            category_id = COALESCE($4, category_id),
            published_at = COALESCE($5, published_at),
            updated_at = NOW()
        WHERE id = $1
    `, id, patch.Title, patch.Content, patch.CategoryID, patch.PublishedAt)
	if err != nil {
		return models.News{}, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.News{}, models.ErrNotFound
	}
	return db.GetNews(ctx, id)
}

// DeleteNews удаляет новость, ErrNotFound при отсутствии.
func (db *Database) DeleteNews(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
