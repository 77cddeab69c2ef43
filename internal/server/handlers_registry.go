package server

import (
	"net/http"

	"news_publisher/internal/models"
)

type agencyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) handleCreateAgency(w http.ResponseWriter, r *http.Request) {
	var req agencyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || *req.Name == "" {
		http.Error(w, "Название агентства не может быть пустым", http.StatusBadRequest)
		return
	}

	agency, err := s.agencies.CreateAgency(r.Context(), models.Agency{
		Name:        *req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agency)
}

func (s *Server) handleListAgencies(w http.ResponseWriter, r *http.Request) {
	agencies, err := s.agencies.ListAgencies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if agencies == nil {
		agencies = []models.Agency{}
	}
	writeJSON(w, http.StatusOK, agencies)
}

func (s *Server) handleGetAgency(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID агентства", http.StatusBadRequest)
		return
	}

	agency, err := s.agencies.GetAgency(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agency)
}

func (s *Server) handleUpdateAgency(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID агентства", http.StatusBadRequest)
		return
	}

	var req agencyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	agency, err := s.agencies.UpdateAgency(r.Context(), id, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agency)
}

func (s *Server) handleDeleteAgency(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID агентства", http.StatusBadRequest)
		return
	}

	if err := s.agencies.DeleteAgency(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryRequest struct {
	Name *string `json:"name"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || *req.Name == "" {
		http.Error(w, "Название категории не может быть пустым", http.StatusBadRequest)
		return
	}

	category, err := s.categories.CreateCategory(r.Context(), models.Category{Name: *req.Name})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID категории", http.StatusBadRequest)
		return
	}

	category, err := s.categories.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID категории", http.StatusBadRequest)
		return
	}

	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := s.categories.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID категории", http.StatusBadRequest)
		return
	}

	if err := s.categories.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
