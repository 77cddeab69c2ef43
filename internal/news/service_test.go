package news_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"news_publisher/internal/auth"
	"news_publisher/internal/external"
	"news_publisher/internal/models"
	"news_publisher/internal/news"
)

// fakeStores — хранилище в памяти, повторяющее контракт внешних зависимостей сервиса.
type fakeStores struct {
	users      map[int64]models.User
	agencies   map[int64]models.Agency
	categories map[int64]models.Category
	news       map[int64]models.News
	nextNewsID int64
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		users:      make(map[int64]models.User),
		agencies:   make(map[int64]models.Agency),
		categories: make(map[int64]models.Category),
		news:       make(map[int64]models.News),
	}
}

func (f *fakeStores) GetUser(_ context.Context, id int64) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (f *fakeStores) GetAgency(_ context.Context, id int64) (models.Agency, error) {
	a, ok := f.agencies[id]
	if !ok {
		return models.Agency{}, models.ErrNotFound
	}
	return a, nil
}

func (f *fakeStores) GetCategory(_ context.Context, id int64) (models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return models.Category{}, models.ErrNotFound
	}
	return c, nil
}

func (f *fakeStores) resolve(n models.News) models.News {
	if u, ok := f.users[n.AuthorID]; ok {
		n.Author = &u
	}
	if a, ok := f.agencies[n.AgencyID]; ok {
		n.Agency = &a
	}
	if c, ok := f.categories[n.CategoryID]; ok {
		n.Category = &c
	}
	return n
}

func (f *fakeStores) CreateNews(_ context.Context, n models.News) (models.News, error) {
	f.nextNewsID++
	n.ID = f.nextNewsID
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	f.news[n.ID] = n
	return f.resolve(n), nil
}

func (f *fakeStores) GetNews(_ context.Context, id int64) (models.News, error) {
	n, ok := f.news[id]
	if !ok {
		return models.News{}, models.ErrNotFound
	}
	return f.resolve(n), nil
}

func (f *fakeStores) ListNews(_ context.Context, filter models.NewsFilter) ([]models.News, error) {
	var result []models.News
	for _, n := range f.news {
		if filter.CategoryID != nil && n.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.AgencyID != nil && n.AgencyID != *filter.AgencyID {
			continue
		}
		if filter.StartDate != nil && n.PublishedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && n.PublishedAt.After(*filter.EndDate) {
			continue
		}
		result = append(result, f.resolve(n))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PublishedAt.After(result[j].PublishedAt)
	})
	return result, nil
}

func (f *fakeStores) UpdateNews(_ context.Context, id int64, patch models.NewsPatch) (models.News, error) {
	n, ok := f.news[id]
	if !ok {
		return models.News{}, models.ErrNotFound
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.CategoryID != nil {
		n.CategoryID = *patch.CategoryID
	}
	if patch.PublishedAt != nil {
		n.PublishedAt = *patch.PublishedAt
	}
	n.UpdatedAt = time.Now()
	f.news[id] = n
	return f.resolve(n), nil
}

func (f *fakeStores) DeleteNews(_ context.Context, id int64) error {
	if _, ok := f.news[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.news, id)
	return nil
}

// fakeExternal отдаёт заранее заданные заголовки и запоминает запрос.
type fakeExternal struct {
	headlines []models.UnifiedNews
	lastQuery external.HeadlinesQuery
}

func (f *fakeExternal) FetchHeadlines(_ context.Context, q external.HeadlinesQuery) []models.UnifiedNews {
	f.lastQuery = q
	return f.headlines
}

func claimsFor(userID int64, role models.Role, agencyID *int64) *auth.Claims {
	return &auth.Claims{
		Username: "user" + strconv.FormatInt(userID, 10),
		Role:     role,
		AgencyID: agencyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(userID, 10),
		},
	}
}

func ptr[T any](v T) *T { return &v }

func externalItem(title string, publishedAt time.Time) models.UnifiedNews {
	return models.UnifiedNews{
		ID:          external.GenerateID(title),
		Title:       title,
		PublishedAt: publishedAt,
		IsExternal:  true,
		SourceType:  models.SourceExternal,
	}
}

type fixture struct {
	stores  *fakeStores
	ext     *fakeExternal
	service *news.Service
}

func newFixture() *fixture {
	stores := newFakeStores()
	ext := &fakeExternal{}

	stores.agencies[1] = models.Agency{ID: 1, Name: "ТАСС"}
	stores.agencies[2] = models.Agency{ID: 2, Name: "Интерфакс"}
	stores.categories[1] = models.Category{ID: 1, Name: "Политика"}
	stores.categories[2] = models.Category{ID: 2, Name: "Спорт"}
	stores.users[10] = models.User{ID: 10, Username: "ivanov", Role: models.RoleAuthor, AgencyID: ptr(int64(1))}
	stores.users[11] = models.User{ID: 11, Username: "petrov", Role: models.RoleAuthor, AgencyID: ptr(int64(2))}
	stores.users[20] = models.User{ID: 20, Username: "reader", Role: models.RoleReader}
	stores.users[30] = models.User{ID: 30, Username: "admin", Role: models.RoleAdmin}

	return &fixture{
		stores:  stores,
		ext:     ext,
		service: news.NewService(stores, stores, stores, stores, ext, "us", 10),
	}
}

func TestCreate_AuthorIgnoresOverrides(t *testing.T) {
	f := newFixture()
	claims := claimsFor(10, models.RoleAuthor, ptr(int64(1)))

	// Автор не может публиковать от чужого имени: явные authorId/agencyId игнорируются
	item, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 1,
		AuthorID:   ptr(int64(11)),
		AgencyID:   ptr(int64(2)),
	}, claims)
	require.NoError(t, err)
	require.Equal(t, int64(10), item.AuthorID)
	require.Equal(t, int64(1), item.AgencyID)
}

func TestCreate_RoundTrip(t *testing.T) {
	f := newFixture()
	claims := claimsFor(10, models.RoleAuthor, ptr(int64(1)))
	publishedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	created, err := f.service.Create(context.Background(), news.CreateInput{
		Title:       "Заголовок",
		Content:     "Текст",
		CategoryID:  2,
		PublishedAt: &publishedAt,
	}, claims)
	require.NoError(t, err)

	found, err := f.service.FindOne(context.Background(), models.LocalNewsID(created.ID))
	require.NoError(t, err)
	require.Equal(t, "Заголовок", found.Title)
	require.Equal(t, "Текст", found.Content)
	require.Equal(t, publishedAt, found.PublishedAt)
	require.False(t, found.IsExternal)
	require.Equal(t, models.SourceLocal, found.SourceType)
}

func TestCreate_PublishedAtDefaultsToNow(t *testing.T) {
	f := newFixture()
	claims := claimsFor(10, models.RoleAuthor, ptr(int64(1)))

	before := time.Now()
	item, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 1,
	}, claims)
	require.NoError(t, err)
	require.False(t, item.PublishedAt.Before(before))
	require.False(t, item.PublishedAt.After(time.Now()))
}

func TestCreate_MissingCategory(t *testing.T) {
	f := newFixture()
	claims := claimsFor(10, models.RoleAuthor, ptr(int64(1)))

	_, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 99,
	}, claims)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreate_AdminOverrides(t *testing.T) {
	f := newFixture()
	claims := claimsFor(30, models.RoleAdmin, nil)

	item, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 1,
		AuthorID:   ptr(int64(11)),
		AgencyID:   ptr(int64(2)),
	}, claims)
	require.NoError(t, err)
	require.Equal(t, int64(11), item.AuthorID)
	require.Equal(t, int64(2), item.AgencyID)
}

func TestCreate_AdminAssignsNonAuthor(t *testing.T) {
	f := newFixture()
	claims := claimsFor(30, models.RoleAdmin, nil)

	// Читатель не может быть автором новости
	_, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 1,
		AuthorID:   ptr(int64(20)),
		AgencyID:   ptr(int64(1)),
	}, claims)
	require.ErrorIs(t, err, models.ErrForbidden)
}

func TestCreate_AdminUnknownAgency(t *testing.T) {
	f := newFixture()
	claims := claimsFor(30, models.RoleAdmin, nil)

	_, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 1,
		AuthorID:   ptr(int64(10)),
		AgencyID:   ptr(int64(99)),
	}, claims)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestCheckOwner(t *testing.T) {
	f := newFixture()
	owner := claimsFor(10, models.RoleAuthor, ptr(int64(1)))

	item, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 1,
	}, owner)
	require.NoError(t, err)

	t.Run("owner passes", func(t *testing.T) {
		require.NoError(t, f.service.CheckOwner(context.Background(), item.ID, owner))
	})

	t.Run("other author forbidden", func(t *testing.T) {
		other := claimsFor(11, models.RoleAuthor, ptr(int64(2)))
		err := f.service.CheckOwner(context.Background(), item.ID, other)
		require.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("admin passes", func(t *testing.T) {
		admin := claimsFor(30, models.RoleAdmin, nil)
		require.NoError(t, f.service.CheckOwner(context.Background(), item.ID, admin))
	})

	t.Run("reader forbidden", func(t *testing.T) {
		reader := claimsFor(20, models.RoleReader, nil)
		err := f.service.CheckOwner(context.Background(), item.ID, reader)
		require.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("missing item not found", func(t *testing.T) {
		err := f.service.CheckOwner(context.Background(), 999, owner)
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUpdate_MergePatch(t *testing.T) {
	f := newFixture()
	claims := claimsFor(10, models.RoleAuthor, ptr(int64(1)))

	item, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Старый заголовок",
		Content:    "Старый текст",
		CategoryID: 1,
	}, claims)
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), item.ID, models.NewsPatch{
		Title: ptr("Новый заголовок"),
	})
	require.NoError(t, err)
	require.Equal(t, "Новый заголовок", updated.Title)
	require.Equal(t, "Старый текст", updated.Content)
	require.Equal(t, int64(1), updated.CategoryID)
	require.Equal(t, item.PublishedAt, updated.PublishedAt)
}

func TestUpdate_UnknownCategory(t *testing.T) {
	f := newFixture()
	claims := claimsFor(10, models.RoleAuthor, ptr(int64(1)))

	item, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 1,
	}, claims)
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), item.ID, models.NewsPatch{
		CategoryID: ptr(int64(99)),
	})
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemove(t *testing.T) {
	f := newFixture()
	claims := claimsFor(10, models.RoleAuthor, ptr(int64(1)))

	item, err := f.service.Create(context.Background(), news.CreateInput{
		Title:      "Заголовок",
		Content:    "Текст",
		CategoryID: 1,
	}, claims)
	require.NoError(t, err)

	require.NoError(t, f.service.Remove(context.Background(), item.ID))
	require.ErrorIs(t, f.service.Remove(context.Background(), item.ID), models.ErrNotFound)
}

func TestFindAll_InterleavedOrdering(t *testing.T) {
	f := newFixture()

	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	t4 := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)

	// Локальные сортируются по времени создания: задаём его напрямую в хранилище
	f.stores.news[1] = models.News{ID: 1, Title: "local old", CreatedAt: t1, PublishedAt: t1, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.news[2] = models.News{ID: 2, Title: "local new", CreatedAt: t2, PublishedAt: t2, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.nextNewsID = 2

	f.ext.headlines = []models.UnifiedNews{
		externalItem("external old", t3),
		externalItem("external new", t4),
	}

	feed, err := f.service.FindAll(context.Background(), models.NewsFilter{SourceType: models.SourceAll})
	require.NoError(t, err)
	require.Len(t, feed, 4)

	titles := []string{feed[0].Title, feed[1].Title, feed[2].Title, feed[3].Title}
	// Убывание по эффективному времени, источники перемешаны, а не сгруппированы
	require.Equal(t, []string{"external new", "local new", "external old", "local old"}, titles)
}

func TestFindAll_CategoryFilterNotForwardedExternally(t *testing.T) {
	f := newFixture()

	now := time.Now()
	f.stores.news[1] = models.News{ID: 1, Title: "политика", CreatedAt: now, PublishedAt: now, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.news[2] = models.News{ID: 2, Title: "спорт", CreatedAt: now, PublishedAt: now, AuthorID: 10, AgencyID: 1, CategoryID: 2}
	f.stores.nextNewsID = 2

	f.ext.headlines = []models.UnifiedNews{externalItem("external headline", now)}

	feed, err := f.service.FindAll(context.Background(), models.NewsFilter{
		CategoryID: ptr(int64(1)),
		SourceType: models.SourceAll,
	})
	require.NoError(t, err)

	// Локальная часть отфильтрована, внешняя — нет
	require.Len(t, feed, 2)
	var localTitles, externalTitles []string
	for _, item := range feed {
		if item.IsExternal {
			externalTitles = append(externalTitles, item.Title)
		} else {
			localTitles = append(localTitles, item.Title)
		}
	}
	require.Equal(t, []string{"политика"}, localTitles)
	require.Equal(t, []string{"external headline"}, externalTitles)

	// Провайдер вызывается с фиксированной политикой, без фильтров
	require.Empty(t, f.ext.lastQuery.Category)
	require.Equal(t, "us", f.ext.lastQuery.Country)
	require.Equal(t, 10, f.ext.lastQuery.PageSize)
}

func TestFindAll_SourceTypeLocal(t *testing.T) {
	f := newFixture()

	now := time.Now()
	f.stores.news[1] = models.News{ID: 1, Title: "local", CreatedAt: now, PublishedAt: now, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.nextNewsID = 1
	f.ext.headlines = []models.UnifiedNews{externalItem("external", now)}

	feed, err := f.service.FindAll(context.Background(), models.NewsFilter{SourceType: models.SourceLocal})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.False(t, feed[0].IsExternal)
}

func TestFindAll_SourceTypeExternal(t *testing.T) {
	f := newFixture()

	now := time.Now()
	f.stores.news[1] = models.News{ID: 1, Title: "local", CreatedAt: now, PublishedAt: now, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.nextNewsID = 1
	f.ext.headlines = []models.UnifiedNews{externalItem("external", now)}

	feed, err := f.service.FindAll(context.Background(), models.NewsFilter{SourceType: models.SourceExternal})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.True(t, feed[0].IsExternal)
}

func TestFindAll_EmptySourceTypeMeansAll(t *testing.T) {
	f := newFixture()

	now := time.Now()
	f.stores.news[1] = models.News{ID: 1, Title: "local", CreatedAt: now, PublishedAt: now, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.nextNewsID = 1
	f.ext.headlines = []models.UnifiedNews{externalItem("external", now)}

	feed, err := f.service.FindAll(context.Background(), models.NewsFilter{})
	require.NoError(t, err)
	require.Len(t, feed, 2)
}

func TestFindAll_DateRange(t *testing.T) {
	f := newFixture()

	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	f.stores.news[1] = models.News{ID: 1, Title: "january", CreatedAt: jan, PublishedAt: jan, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.news[2] = models.News{ID: 2, Title: "february", CreatedAt: feb, PublishedAt: feb, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.news[3] = models.News{ID: 3, Title: "march", CreatedAt: mar, PublishedAt: mar, AuthorID: 10, AgencyID: 1, CategoryID: 1}
	f.stores.nextNewsID = 3

	// Диапазон включает границы
	feed, err := f.service.FindAll(context.Background(), models.NewsFilter{
		SourceType: models.SourceLocal,
		StartDate:  &jan,
		EndDate:    &feb,
	})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, "february", feed[0].Title)
	require.Equal(t, "january", feed[1].Title)
}

// Искажённый ответ провайдера (без поля articles) даёт пустую внешнюю
// часть ленты, а не ошибку.
func TestFindAll_MalformedExternalPayload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	t.Cleanup(upstream.Close)

	stores := newFakeStores()
	client := external.NewClient(upstream.URL, "test-key", time.Second)
	service := news.NewService(stores, stores, stores, stores, client, "us", 10)

	feed, err := service.FindAll(context.Background(), models.NewsFilter{SourceType: models.SourceExternal})
	require.NoError(t, err)
	require.Empty(t, feed)
}

func TestFindOne_LocalNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.FindOne(context.Background(), models.LocalNewsID(404))
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindOne_ExternalMatch(t *testing.T) {
	f := newFixture()

	target := externalItem("Breaking News Today", time.Now())
	f.ext.headlines = []models.UnifiedNews{
		externalItem("Breaking Bad Finale", time.Now()),
		target,
	}

	found, err := f.service.FindOne(context.Background(), models.ExternalNewsID("breaking_news_today"))
	require.NoError(t, err)
	require.Equal(t, target.ID, found.ID)

	// Поиск кандидатов идёт по первому токену идентификатора
	require.Equal(t, "breaking", f.ext.lastQuery.Q)
	require.Equal(t, 20, f.ext.lastQuery.PageSize)
}

// Кандидат с несовпадающим синтезированным id не выдаётся за найденную
// новость: лучше честный 404, чем молча другая статья.
func TestFindOne_ExternalMismatch(t *testing.T) {
	f := newFixture()

	f.ext.headlines = []models.UnifiedNews{
		externalItem("Breaking Bad Finale", time.Now()),
	}

	_, err := f.service.FindOne(context.Background(), models.ExternalNewsID("breaking_news_today"))
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindOne_ExternalEmptyProvider(t *testing.T) {
	f := newFixture()

	_, err := f.service.FindOne(context.Background(), models.ExternalNewsID("anything_at_all"))
	require.ErrorIs(t, err, models.ErrNotFound)
}
