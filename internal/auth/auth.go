package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"news_publisher/internal/models"
)

// UserStore — хранилище пользователей, необходимое сервису аутентификации.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// Claims — полезная нагрузка токена сессии: id пользователя (в Subject),
// имя, роль и необязательное агентство.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	AgencyID *int64      `json:"agencyId,omitempty"`
	jwt.RegisteredClaims
}

// UserID возвращает числовой id пользователя из Subject.
func (c *Claims) UserID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

// Service выпускает и проверяет токены сессии и хранит учётные данные.
type Service struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
}

// NewService создаёт сервис аутентификации с подписывающим секретом
// и сроком жизни токена.
func NewService(users UserStore, secret string, ttl time.Duration) *Service {
	return &Service{users: users, secret: []byte(secret), ttl: ttl}
}

// Register создаёт учётную запись читателя и выпускает токен.
// Роль всегда reader, агентство отсутствует — независимо от входных данных.
// Занятое имя пользователя превращается в ErrConflict.
func (s *Service) Register(ctx context.Context, username, password string, email *string) (models.User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         models.RoleReader,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.User{}, "", fmt.Errorf("пользователь с таким именем %w", models.ErrConflict)
		}
		return models.User{}, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Login проверяет учётные данные и выпускает токен.
// Неизвестное имя и неверный пароль дают одинаковый ErrUnauthorized,
// чтобы не раскрывать существование учётной записи.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("неверные учётные данные: %w", models.ErrUnauthorized)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("неверные учётные данные: %w", models.ErrUnauthorized)
	}

	return s.issueToken(user)
}

// ValidateToken разбирает и проверяет токен сессии.
// Недействительная подпись или истёкший срок дают ErrUnauthorized.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("недействительный токен: %w", models.ErrUnauthorized)
	}
	return &claims, nil
}

// HashPassword вычисляет односторонний хэш пароля.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) issueToken(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		AgencyID: user.AgencyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
