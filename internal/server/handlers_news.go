package server

import (
	"net/http"
	"strconv"
	"time"

	"news_publisher/internal/middleware"
	"news_publisher/internal/models"
	"news_publisher/internal/news"
)

// handleCreateNews создаёт новость от имени вызывающего (автор или админ).
func (s *Server) handleCreateNews(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	var input news.CreateInput
	if !decodeBody(w, r, &input) {
		return
	}
	if input.Title == "" || input.Content == "" {
		http.Error(w, "Заголовок и содержание не могут быть пустыми", http.StatusBadRequest)
		return
	}

	item, err := s.news.Create(r.Context(), input, claims)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleNewsFeed возвращает объединённую ленту локальных и внешних новостей.
func (s *Server) handleNewsFeed(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	feed, err := s.news.FindAll(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// handleGetNews возвращает одну новость: числовой id ищется локально,
// синтезированный — у внешнего провайдера.
func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	id := models.ParseNewsID(r.PathValue("id"))

	item, err := s.news.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleUpdateNews применяет частичное обновление после проверки владения.
func (s *Server) handleUpdateNews(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID новости", http.StatusBadRequest)
		return
	}

	var patch models.NewsPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	if err := s.news.CheckOwner(r.Context(), id, claims); err != nil {
		writeError(w, err)
		return
	}

	item, err := s.news.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDeleteNews удаляет новость после проверки владения.
func (s *Server) handleDeleteNews(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID новости", http.StatusBadRequest)
		return
	}

	if err := s.news.CheckOwner(r.Context(), id, claims); err != nil {
		writeError(w, err)
		return
	}

	if err := s.news.Remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseFilter разбирает параметры фильтрации ленты из строки запроса.
func parseFilter(w http.ResponseWriter, r *http.Request) (models.NewsFilter, bool) {
	var filter models.NewsFilter
	q := r.URL.Query()

	if v := q.Get("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "ID категории должен быть числом", http.StatusBadRequest)
			return filter, false
		}
		filter.CategoryID = &id
	}
	if v := q.Get("agencyId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "ID агентства должен быть числом", http.StatusBadRequest)
			return filter, false
		}
		filter.AgencyID = &id
	}
	if v := q.Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			http.Error(w, "Некорректный формат начальной даты", http.StatusBadRequest)
			return filter, false
		}
		filter.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			http.Error(w, "Некорректный формат конечной даты", http.StatusBadRequest)
			return filter, false
		}
		filter.EndDate = &t
	}

	switch st := models.SourceType(q.Get("sourceType")); st {
	case "", models.SourceAll:
		filter.SourceType = models.SourceAll
	case models.SourceLocal, models.SourceExternal:
		filter.SourceType = st
	default:
		http.Error(w, "Тип источника должен быть local, external или all", http.StatusBadRequest)
		return filter, false
	}

	return filter, true
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
