package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"news_publisher/internal/logger"
	"news_publisher/internal/models"
)

// HeadlinesQuery — параметры запроса к провайдеру заголовков.
// Пустые поля не передаются.
type HeadlinesQuery struct {
	Q        string
	Category string
	Language string
	Country  string
	PageSize int
	Page     int
}

// Client обращается к NewsAPI за свежими заголовками.
// Внешние новости никогда не сохраняются — каждый вызов идёт к провайдеру.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient создаёт клиента внешнего провайдера с ограниченным таймаутом.
// Истечение таймаута равносильно транспортной ошибке: пустой результат.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type apiArticle struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	Author      string `json:"author"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type apiResponse struct {
	Articles []apiArticle `json:"articles"`
}

// FetchHeadlines возвращает заголовки провайдера, приведённые к единому
// представлению ленты. Любая транспортная ошибка или некорректный ответ
// деградируют до пустого результата: недоступность внешнего источника
// не должна ломать локальную ленту.
func (c *Client) FetchHeadlines(ctx context.Context, q HeadlinesQuery) []models.UnifiedNews {
	log := logger.Log.WithField("provider", "newsapi")

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	if q.Q != "" {
		params.Set("q", q.Q)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Errorf("Failed to build request: %v", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnf("Fetch failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("Provider returned non-OK status")
		return nil
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warnf("Decode failed: %v", err)
		return nil
	}
	if payload.Articles == nil {
		log.Warn("Malformed provider payload: no articles field")
		return nil
	}

	news := make([]models.UnifiedNews, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		news = append(news, unify(a))
	}
	return news
}

func unify(a apiArticle) models.UnifiedNews {
	title := a.Title
	if title == "" {
		title = "Без заголовка"
	}
	content := a.Content
	if content == "" {
		content = a.Description
	}
	author := a.Author
	if author == "" {
		author = "Внешний источник"
	}
	agency := a.Source.Name
	if agency == "" {
		agency = "NewsAPI"
	}

	// Некорректная дата публикации оставляет нулевое время,
	// такие новости уходят в конец объединённой ленты.
	publishedAt, _ := time.Parse(time.RFC3339, a.PublishedAt)

	return models.UnifiedNews{
		ID:          GenerateID(a.Title),
		Title:       title,
		Content:     content,
		Description: a.Description,
		PublishedAt: publishedAt,
		Author:      models.UnifiedAuthor{Username: author},
		Agency:      models.UnifiedAgency{Name: agency},
		IsExternal:  true,
		SourceType:  models.SourceExternal,
		URL:         a.URL,
		URLToImage:  a.URLToImage,
	}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\w_]`)
)

// GenerateID синтезирует идентификатор внешней новости из заголовка:
// нижний регистр, пробельные серии — в подчёркивания, не-словесные символы
// отбрасываются, длина ограничена 50 символами. Идентификатор нестабилен
// и не гарантирует уникальности — это известное ограничение провайдера,
// у которого нет собственных id статей.
func GenerateID(title string) string {
	if title == "" {
		title = "none"
	}
	id := strings.ToLower(title)
	id = whitespaceRe.ReplaceAllString(id, "_")
	id = nonWordRe.ReplaceAllString(id, "")
	if len(id) > 50 {
		id = id[:50]
	}
	return id
}
