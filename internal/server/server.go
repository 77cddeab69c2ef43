package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"news_publisher/internal/auth"
	"news_publisher/internal/logger"
	"news_publisher/internal/metrics"
	"news_publisher/internal/middleware"
	"news_publisher/internal/models"
	"news_publisher/internal/news"
	"news_publisher/internal/users"
)

// AgencyRegistry — операции справочника агентств.
type AgencyRegistry interface {
	CreateAgency(ctx context.Context, a models.Agency) (models.Agency, error)
	ListAgencies(ctx context.Context) ([]models.Agency, error)
	GetAgency(ctx context.Context, id int64) (models.Agency, error)
	UpdateAgency(ctx context.Context, id int64, name *string, description *string) (models.Agency, error)
	DeleteAgency(ctx context.Context, id int64) error
}

// CategoryRegistry — операции справочника категорий.
type CategoryRegistry interface {
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	UpdateCategory(ctx context.Context, id int64, name *string) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Pinger проверяет доступность хранилища для /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server хранит зависимости HTTP-обработчиков.
type Server struct {
	auth       *auth.Service
	users      *users.Service
	news       *news.Service
	agencies   AgencyRegistry
	categories CategoryRegistry
	pinger     Pinger
}

// NewServer создаёт сервер с явно переданными зависимостями.
func NewServer(authSvc *auth.Service, usersSvc *users.Service, newsSvc *news.Service, agencies AgencyRegistry, categories CategoryRegistry, pinger Pinger) *Server {
	return &Server{
		auth:       authSvc,
		users:      usersSvc,
		news:       newsSvc,
		agencies:   agencies,
		categories: categories,
		pinger:     pinger,
	}
}

// Routes собирает маршруты и цепочку middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("POST /api/users", s.withAuth(s.handleCreateUser, models.RoleAdmin))
	mux.HandleFunc("GET /api/users/{id}", s.withAuth(s.handleGetUser, models.RoleAdmin))

	mux.HandleFunc("POST /api/agencies", s.withAuth(s.handleCreateAgency, models.RoleAdmin))
	mux.HandleFunc("GET /api/agencies", s.handleListAgencies)
	mux.HandleFunc("GET /api/agencies/{id}", s.handleGetAgency)
	mux.HandleFunc("PATCH /api/agencies/{id}", s.withAuth(s.handleUpdateAgency, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/agencies/{id}", s.withAuth(s.handleDeleteAgency, models.RoleAdmin))

	mux.HandleFunc("POST /api/categories", s.withAuth(s.handleCreateCategory, models.RoleAdmin))
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PATCH /api/categories/{id}", s.withAuth(s.handleUpdateCategory, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withAuth(s.handleDeleteCategory, models.RoleAdmin))

	mux.HandleFunc("POST /api/news", s.withAuth(s.handleCreateNews, models.RoleAuthor, models.RoleAdmin))
	mux.HandleFunc("GET /api/news", s.handleNewsFeed)
	mux.HandleFunc("GET /api/news/{id}", s.handleGetNews)
	mux.HandleFunc("PATCH /api/news/{id}", s.withAuth(s.handleUpdateNews, models.RoleAuthor, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/news/{id}", s.withAuth(s.handleDeleteNews, models.RoleAuthor, models.RoleAdmin))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	handler := metrics.Middleware(mux)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	return handler
}

func (s *Server) withAuth(next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return middleware.RequireAuth(s.auth, next, roles...)
}

// handleHealth отвечает 200 OK, если база доступна, иначе 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("Failed to encode response: %v", err)
	}
}

// writeError отображает доменные ошибки в HTTP-статусы.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		logger.Log.Errorf("Internal error: %v", err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

// pathID извлекает числовой идентификатор из пути запроса.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Некорректное тело запроса", http.StatusBadRequest)
		return false
	}
	return true
}
