package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"news_publisher/internal/auth"
	"news_publisher/internal/config"
	"news_publisher/internal/db"
	"news_publisher/internal/logger"
	"news_publisher/internal/models"
)

// Наполняет базу стартовыми данными: администратор, агентства,
// категории и пара авторов. Повторный запуск пропускает уже
// существующие записи.
func main() {
	godotenv.Load()
	logger.Init()

	ctx := context.Background()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}

	database, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("DB connection error: %v", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		logger.Log.Fatalf("Schema error: %v", err)
	}

	for _, name := range []string{"ТАСС", "Интерфакс"} {
		_, err := database.CreateAgency(ctx, models.Agency{Name: name})
		if errors.Is(err, models.ErrConflict) {
			logger.Log.Infof("Agency %q already exists", name)
			continue
		}
		if err != nil {
			logger.Log.Fatalf("Create agency error: %v", err)
		}
	}

	// Идентификаторы агентств читаем из базы: при повторном запуске
	// строки уже существуют и вставка их не возвращает.
	existing, err := database.ListAgencies(ctx)
	if err != nil {
		logger.Log.Fatalf("List agencies error: %v", err)
	}
	agencies := map[string]int64{}
	for _, agency := range existing {
		agencies[agency.Name] = agency.ID
	}

	for _, name := range []string{"Политика", "Экономика", "Спорт", "Технологии"} {
		_, err := database.CreateCategory(ctx, models.Category{Name: name})
		if errors.Is(err, models.ErrConflict) {
			logger.Log.Infof("Category %q already exists", name)
			continue
		}
		if err != nil {
			logger.Log.Fatalf("Create category error: %v", err)
		}
	}

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
		logger.Log.Warn("SEED_ADMIN_PASSWORD not set, using default password")
	}

	createUser(ctx, database, "admin", adminPassword, models.RoleAdmin, nil)

	for username, agencyName := range map[string]string{
		"ivanov": "ТАСС",
		"petrov": "Интерфакс",
	} {
		var agencyID *int64
		if id, ok := agencies[agencyName]; ok {
			agencyID = &id
		}
		createUser(ctx, database, username, "author123", models.RoleAuthor, agencyID)
	}

	logger.Log.Info("Seeding finished")
}

func createUser(ctx context.Context, database *db.Database, username, password string, role models.Role, agencyID *int64) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Log.Fatalf("Hash password error: %v", err)
	}

	_, err = database.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		AgencyID:     agencyID,
	})
	if errors.Is(err, models.ErrConflict) {
		logger.Log.Infof("User %q already exists", username)
		return
	}
	if err != nil {
		logger.Log.Fatalf("Create user error: %v", err)
	}
	logger.Log.Infof("Created user %q with role %s", username, role)
}
