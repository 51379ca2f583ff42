package bootstrap

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"tutorchat/internal/ai"
	"tutorchat/internal/app"
	"tutorchat/internal/config"
	"tutorchat/internal/model"
	mysqlClient "tutorchat/internal/platform/mysql"
	"tutorchat/internal/repository"
)

// App is the process-wide context: configuration, the database pool and the
// services handlers depend on. Tests assemble one by hand with doubles.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Auth   *app.AuthService
	Tutor  *app.TutorService
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	if cfg.App.Env != "dev" && (cfg.Auth.JWTSecret == "" || cfg.Auth.JWTSecret == config.DefaultJWTSecret) {
		return nil, fmt.Errorf("JWT_SECRET must be set explicitly when APP_ENV is %q", cfg.App.Env)
	}

	db, err := mysqlClient.New(cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	// Schema init failure is not fatal: the server still comes up and data
	// operations surface errors per request until the database recovers.
	if err := db.AutoMigrate(&model.User{}, &model.Chat{}, &model.Message{}); err != nil {
		log.Printf("auto migrate tables failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	authService := app.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireHour)*time.Hour,
	)
	tutorService := app.NewTutorService(ai.NewMessagesClient(), ai.ChatConfig{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})

	return &App{
		Config: cfg,
		DB:     db,
		Auth:   authService,
		Tutor:  tutorService,
	}, nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
