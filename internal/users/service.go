package users

import (
	"context"
	"errors"
	"fmt"

	"news_publisher/internal/auth"
	"news_publisher/internal/models"
)

// Store — хранилище учётных записей.
type Store interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
}

// AgencyStore отдаёт агентства для проверки ссылки при создании.
type AgencyStore interface {
	GetAgency(ctx context.Context, id int64) (models.Agency, error)
}

// Service управляет учётными записями, создаваемыми администратором.
type Service struct {
	store    Store
	agencies AgencyStore
}

// NewService создаёт сервис пользователей.
func NewService(store Store, agencies AgencyStore) *Service {
	return &Service{store: store, agencies: agencies}
}

// CreateInput — входные данные создания пользователя администратором.
type CreateInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Email    *string     `json:"email"`
	Role     models.Role `json:"role"`
	AgencyID *int64      `json:"agencyId"`
}

// Create создаёт учётную запись с заданной ролью. Читатель не может
// состоять в агентстве — переданное агентство молча сбрасывается.
// Ссылка на агентство обязана указывать на существующую строку.
func (s *Service) Create(ctx context.Context, input CreateInput) (models.User, error) {
	agencyID := input.AgencyID
	if input.Role == models.RoleReader {
		agencyID = nil
	}

	if agencyID != nil {
		if _, err := s.agencies.GetAgency(ctx, *agencyID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.User{}, fmt.Errorf("агентство %d: %w", *agencyID, models.ErrNotFound)
			}
			return models.User{}, err
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.store.CreateUser(ctx, models.User{
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		Role:         input.Role,
		AgencyID:     agencyID,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.User{}, fmt.Errorf("имя пользователя или email %w", models.ErrConflict)
		}
		return models.User{}, err
	}
	return user, nil
}

// FindOne возвращает пользователя по id, ErrNotFound при отсутствии.
func (s *Service) FindOne(ctx context.Context, id int64) (models.User, error) {
	return s.store.GetUser(ctx, id)
}
