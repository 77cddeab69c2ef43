package server

import (
	"net/http"

	"news_publisher/internal/models"
	"news_publisher/internal/users"
)

type registerRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
}

type registerResponse struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	Email       *string     `json:"email,omitempty"`
	Role        models.Role `json:"role"`
	AccessToken string      `json:"accessToken"`
	Message     string      `json:"message"`
}

// handleRegister регистрирует читателя и сразу выдаёт токен.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" {
		http.Error(w, "Имя пользователя не может быть пустым", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		http.Error(w, "Пароль должен содержать минимум 6 символов", http.StatusBadRequest)
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		AccessToken: token,
		Message:     "Регистрация прошла успешно",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin проверяет учётные данные и выдаёт токен.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

// handleCreateUser создаёт учётную запись с произвольной ролью (только админ).
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var input users.CreateInput
	if !decodeBody(w, r, &input) {
		return
	}
	if input.Username == "" {
		http.Error(w, "Имя пользователя не может быть пустым", http.StatusBadRequest)
		return
	}
	if len(input.Password) < 6 {
		http.Error(w, "Пароль должен содержать минимум 6 символов", http.StatusBadRequest)
		return
	}
	if !input.Role.Valid() {
		http.Error(w, "Недопустимая роль", http.StatusBadRequest)
		return
	}

	user, err := s.users.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// handleGetUser возвращает пользователя по ID (только админ).
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Неверный ID пользователя", http.StatusBadRequest)
		return
	}

	user, err := s.users.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
