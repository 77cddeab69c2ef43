package external_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"news_publisher/internal/external"
	"news_publisher/internal/models"

	"github.com/stretchr/testify/require"
)

const validPayload = `{
	"status": "ok",
	"articles": [
		{
			"title": "Go 1.24 Released: What's New",
			"content": "Full release notes...",
			"description": "Short description",
			"publishedAt": "2025-05-03T15:04:05Z",
			"author": "Jane Doe",
			"url": "http://example.com/go124",
			"urlToImage": "http://example.com/go124.png",
			"source": {"name": "Example News"}
		},
		{
			"title": "",
			"content": "",
			"description": "Only a description",
			"publishedAt": "bad-date",
			"author": "",
			"url": "http://example.com/other",
			"source": {"name": ""}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *external.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return external.NewClient(server.URL, "test-key", time.Second)
}

func TestFetchHeadlines_MapsArticles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		require.Equal(t, "us", r.URL.Query().Get("country"))
		require.Equal(t, "5", r.URL.Query().Get("pageSize"))
		w.Write([]byte(validPayload))
	})

	news := client.FetchHeadlines(context.Background(), external.HeadlinesQuery{
		Country:  "us",
		PageSize: 5,
	})
	require.Len(t, news, 2)

	first := news[0]
	require.Equal(t, "go_124_released_whats_new", first.ID)
	require.Equal(t, "Go 1.24 Released: What's New", first.Title)
	require.Equal(t, "Full release notes...", first.Content)
	require.Equal(t, "Jane Doe", first.Author.Username)
	require.Equal(t, "Example News", first.Agency.Name)
	require.True(t, first.IsExternal)
	require.Equal(t, models.SourceExternal, first.SourceType)
	require.Equal(t, time.Date(2025, 5, 3, 15, 4, 5, 0, time.UTC), first.PublishedAt)

	// Пустые поля заполняются подстановками, дата с ошибкой — нулевая
	second := news[1]
	require.Equal(t, "Без заголовка", second.Title)
	require.Equal(t, "Only a description", second.Content)
	require.Equal(t, "Внешний источник", second.Author.Username)
	require.Equal(t, "NewsAPI", second.Agency.Name)
	require.True(t, second.PublishedAt.IsZero())
}

func TestFetchHeadlines_MalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	})

	news := client.FetchHeadlines(context.Background(), external.HeadlinesQuery{})
	require.Empty(t, news)
}

func TestFetchHeadlines_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	news := client.FetchHeadlines(context.Background(), external.HeadlinesQuery{})
	require.Empty(t, news)
}

func TestFetchHeadlines_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	news := client.FetchHeadlines(context.Background(), external.HeadlinesQuery{})
	require.Empty(t, news)
}

func TestFetchHeadlines_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := external.NewClient(server.URL, "test-key", time.Second)
	news := client.FetchHeadlines(context.Background(), external.HeadlinesQuery{})
	require.Empty(t, news)
}

// Истечение таймаута равносильно транспортной ошибке: пустой результат.
func TestFetchHeadlines_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(validPayload))
	}))
	t.Cleanup(server.Close)

	client := external.NewClient(server.URL, "test-key", 50*time.Millisecond)
	news := client.FetchHeadlines(context.Background(), external.HeadlinesQuery{})
	require.Empty(t, news)
}

func TestGenerateID(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "spaces to underscores", title: "Breaking News Today", expected: "breaking_news_today"},
		{name: "punctuation stripped", title: "Hello, World!", expected: "hello_world"},
		{name: "whitespace runs collapse", title: "a  b\tc", expected: "a_b_c"},
		{name: "empty title", title: "", expected: "none"},
		{
			name:     "truncated to 50",
			title:    "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			expected: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, external.GenerateID(tc.title))
		})
	}
}
