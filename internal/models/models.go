package models

import (
	"strconv"
	"time"
)

// Role определяет роль пользователя в системе.
type Role string

const (
	// RoleReader — читатель, доступ только на чтение.
	RoleReader Role = "reader"
	// RoleAuthor — автор, может публиковать новости от своего имени и имени своего агентства.
	RoleAuthor Role = "author"
	// RoleAdmin — администратор, без ограничений.
	RoleAdmin Role = "admin"
)

// Valid проверяет, что роль входит в закрытый набор.
func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

// User представляет учётную запись пользователя.
// Хэш пароля никогда не сериализуется наружу.
type User struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	Email        *string `json:"email,omitempty"`
	Role         Role    `json:"role"`
	AgencyID     *int64  `json:"agencyId,omitempty"`
}

// Agency представляет новостное агентство.
type Agency struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Category представляет категорию новостей.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// News представляет локальную новость — каноническую и изменяемую.
type News struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	PublishedAt time.Time `json:"publishedAt"`
	AuthorID    int64     `json:"authorId"`
	AgencyID    int64     `json:"agencyId"`
	CategoryID  int64     `json:"categoryId"`

	// Связанные сущности, заполняются при чтении.
	Author   *User     `json:"author,omitempty"`
	Agency   *Agency   `json:"agency,omitempty"`
	Category *Category `json:"category,omitempty"`
}

// SourceType указывает происхождение новости в объединённой ленте.
type SourceType string

const (
	SourceLocal    SourceType = "local"
	SourceExternal SourceType = "external"
	SourceAll      SourceType = "all"
)

// NewsFilter задаёт параметры фильтрации объединённой ленты.
// Фильтры по категории, агентству и датам применяются только
// к локальным новостям: внешний провайдер их не получает.
type NewsFilter struct {
	CategoryID *int64
	AgencyID   *int64
	StartDate  *time.Time
	EndDate    *time.Time
	SourceType SourceType
}

// NewsPatch содержит обновляемые поля новости.
// Отсутствующее поле (nil) остаётся без изменений.
type NewsPatch struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	CategoryID  *int64     `json:"categoryId"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// UnifiedAuthor — отображаемый автор в объединённой ленте.
// Для внешних новостей это просто подпись, не ссылка на пользователя.
type UnifiedAuthor struct {
	Username string `json:"username"`
}

// UnifiedAgency — отображаемый источник в объединённой ленте.
type UnifiedAgency struct {
	Name string `json:"name"`
}

// UnifiedNews — единое представление локальной или внешней новости.
// Поля IsExternal и SourceType всегда заполнены, чтобы потребитель
// мог отличить происхождение и семантику идентификатора.
type UnifiedNews struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
	PublishedAt time.Time     `json:"publishedAt"`
	Author      UnifiedAuthor `json:"author"`
	Agency      UnifiedAgency `json:"agency"`
	Category    *Category     `json:"category"`
	IsExternal  bool          `json:"isExternal"`
	SourceType  SourceType    `json:"sourceType"`
	URL         string        `json:"url,omitempty"`
	URLToImage  string        `json:"urlToImage,omitempty"`
}

// EffectiveTime возвращает время, по которому новость сортируется в ленте:
// для локальных — время создания, для внешних — время публикации у провайдера.
func (n UnifiedNews) EffectiveTime() time.Time {
	if n.IsExternal {
		return n.PublishedAt
	}
	return n.CreatedAt
}

// Unified приводит локальную новость к единому представлению ленты.
func (n *News) Unified() UnifiedNews {
	u := UnifiedNews{
		ID:          strconv.FormatInt(n.ID, 10),
		Title:       n.Title,
		Content:     n.Content,
		CreatedAt:   n.CreatedAt,
		PublishedAt: n.PublishedAt,
		Category:    n.Category,
		IsExternal:  false,
		SourceType:  SourceLocal,
	}
	if n.Author != nil {
		u.Author.Username = n.Author.Username
	}
	if n.Agency != nil {
		u.Agency.Name = n.Agency.Name
	}
	return u
}
