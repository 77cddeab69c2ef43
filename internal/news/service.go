package news

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"news_publisher/internal/auth"
	"news_publisher/internal/external"
	"news_publisher/internal/models"
)

// Store — хранилище локальных новостей.
type Store interface {
	CreateNews(ctx context.Context, n models.News) (models.News, error)
	GetNews(ctx context.Context, id int64) (models.News, error)
	ListNews(ctx context.Context, filter models.NewsFilter) ([]models.News, error)
	UpdateNews(ctx context.Context, id int64, patch models.NewsPatch) (models.News, error)
	DeleteNews(ctx context.Context, id int64) error
}

// UserStore отдаёт пользователей для проверки ссылок на автора.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
}

// AgencyStore отдаёт агентства для проверки ссылок.
type AgencyStore interface {
	GetAgency(ctx context.Context, id int64) (models.Agency, error)
}

// CategoryStore отдаёт категории для проверки ссылок.
type CategoryStore interface {
	GetCategory(ctx context.Context, id int64) (models.Category, error)
}

// ExternalSource отдаёт внешние заголовки, уже приведённые к единому виду.
type ExternalSource interface {
	FetchHeadlines(ctx context.Context, q external.HeadlinesQuery) []models.UnifiedNews
}

// Максимум кандидатов при разрешении синтезированного внешнего id.
const externalLookupLimit = 20

// Service объединяет локальное хранилище новостей и внешнего провайдера
// в одну ленту и применяет правила создания и владения.
type Service struct {
	store      Store
	users      UserStore
	agencies   AgencyStore
	categories CategoryStore
	external   ExternalSource

	// Фиксированная политика обращения к провайдеру в объединённой ленте.
	country  string
	pageSize int
}

// NewService создаёт сервис новостей с явно переданными зависимостями.
func NewService(store Store, users UserStore, agencies AgencyStore, categories CategoryStore, ext ExternalSource, country string, pageSize int) *Service {
	return &Service{
		store:      store,
		users:      users,
		agencies:   agencies,
		categories: categories,
		external:   ext,
		country:    country,
		pageSize:   pageSize,
	}
}

// CreateInput — входные данные создания новости.
// AuthorID и AgencyID учитываются только для администратора.
type CreateInput struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	CategoryID  int64      `json:"categoryId"`
	PublishedAt *time.Time `json:"publishedAt"`
	AuthorID    *int64     `json:"authorId"`
	AgencyID    *int64     `json:"agencyId"`
}

// Create создаёт новость от имени вызывающего. Автор и агентство по умолчанию
// берутся из токена; администратор может явно указать другого автора
// (тот обязан существовать и иметь роль author) и другое агентство.
func (s *Service) Create(ctx context.Context, input CreateInput, claims *auth.Claims) (models.News, error) {
	if _, err := s.categories.GetCategory(ctx, input.CategoryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.News{}, fmt.Errorf("категория %d: %w", input.CategoryID, models.ErrNotFound)
		}
		return models.News{}, err
	}

	authorID := claims.UserID()
	agencyID := claims.AgencyID

	if claims.Role == models.RoleAdmin {
		if input.AuthorID != nil {
			author, err := s.users.GetUser(ctx, *input.AuthorID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return models.News{}, fmt.Errorf("пользователь %d: %w", *input.AuthorID, models.ErrNotFound)
				}
				return models.News{}, err
			}
			if author.Role != models.RoleAuthor {
				return models.News{}, fmt.Errorf("указанный пользователь не является автором: %w", models.ErrForbidden)
			}
			authorID = author.ID
		}

		if input.AgencyID != nil {
			if _, err := s.agencies.GetAgency(ctx, *input.AgencyID); err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return models.News{}, fmt.Errorf("агентство %d: %w", *input.AgencyID, models.ErrNotFound)
				}
				return models.News{}, err
			}
			agencyID = input.AgencyID
		}
	}

	if agencyID == nil {
		// У новости всегда есть агентство; вызывающий без агентства
		// не может определить принадлежность новости.
		return models.News{}, fmt.Errorf("агентство автора не задано: %w", models.ErrNotFound)
	}

	publishedAt := time.Now()
	if input.PublishedAt != nil {
		publishedAt = *input.PublishedAt
	}

	return s.store.CreateNews(ctx, models.News{
		Title:       input.Title,
		Content:     input.Content,
		PublishedAt: publishedAt,
		AuthorID:    authorID,
		AgencyID:    *agencyID,
		CategoryID:  input.CategoryID,
	})
}

// CheckOwner пропускает администратора всегда, автора — только к его
// собственной новости; остальным доступ запрещён. Проверка применима
// только к локальным новостям: внешние неизменяемы.
func (s *Service) CheckOwner(ctx context.Context, id int64, claims *auth.Claims) error {
	news, err := s.store.GetNews(ctx, id)
	if err != nil {
		return err
	}

	if claims.Role == models.RoleAdmin {
		return nil
	}
	if claims.Role == models.RoleAuthor && news.AuthorID == claims.UserID() {
		return nil
	}
	return fmt.Errorf("нет прав на изменение этой новости: %w", models.ErrForbidden)
}

// Update применяет частичное обновление: затрагиваются только переданные
// поля. Новая категория проверяется на существование.
func (s *Service) Update(ctx context.Context, id int64, patch models.NewsPatch) (models.News, error) {
	if patch.CategoryID != nil {
		if _, err := s.categories.GetCategory(ctx, *patch.CategoryID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.News{}, fmt.Errorf("категория %d: %w", *patch.CategoryID, models.ErrNotFound)
			}
			return models.News{}, err
		}
	}
	return s.store.UpdateNews(ctx, id, patch)
}

// Remove удаляет локальную новость, ErrNotFound при отсутствии.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.store.DeleteNews(ctx, id)
}

// FindAll возвращает объединённую ленту по фильтру, сортированную по
// убыванию эффективного времени: у локальных новостей это время создания,
// у внешних — время публикации у провайдера.
//
// Фильтры категории, агентства и дат применяются только к локальной части.
// Внешний провайдер вызывается с фиксированной политикой страна+размер
// страницы; асимметрия унаследована намеренно — «исправление» здесь
// изменит наблюдаемое поведение ленты.
func (s *Service) FindAll(ctx context.Context, filter models.NewsFilter) ([]models.UnifiedNews, error) {
	sourceType := filter.SourceType
	if sourceType == "" {
		sourceType = models.SourceAll
	}

	feed := []models.UnifiedNews{}

	if sourceType == models.SourceLocal || sourceType == models.SourceAll {
		local, err := s.store.ListNews(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range local {
			feed = append(feed, local[i].Unified())
		}
	}

	if sourceType == models.SourceExternal || sourceType == models.SourceAll {
		feed = append(feed, s.external.FetchHeadlines(ctx, external.HeadlinesQuery{
			Country:  s.country,
			PageSize: s.pageSize,
		})...)
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].EffectiveTime().After(feed[j].EffectiveTime())
	})
	return feed, nil
}

// FindOne диспетчеризует поиск по варианту идентификатора: числовой id
// идёт в локальное хранилище, синтезированный — в повторный запрос к
// провайдеру. Кандидаты ищутся по первому токену идентификатора, и
// возвращается только точное совпадение синтезированного id: провайдер
// не хранит стабильных id статей, поэтому «первый попавшийся» результат
// был бы молча неверным.
func (s *Service) FindOne(ctx context.Context, id models.NewsID) (models.UnifiedNews, error) {
	if id.IsLocal() {
		news, err := s.store.GetNews(ctx, id.Local())
		if err != nil {
			return models.UnifiedNews{}, err
		}
		return news.Unified(), nil
	}

	query, _, _ := strings.Cut(id.External(), "_")
	candidates := s.external.FetchHeadlines(ctx, external.HeadlinesQuery{
		Q:        query,
		PageSize: externalLookupLimit,
	})
	for _, candidate := range candidates {
		if candidate.ID == id.External() {
			return candidate, nil
		}
	}
	return models.UnifiedNews{}, fmt.Errorf("внешняя новость %q: %w", id.External(), models.ErrNotFound)
}
