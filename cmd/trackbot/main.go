package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hazadus/go-trackbot/internal/config"
	"github.com/hazadus/go-trackbot/internal/library"
	"github.com/hazadus/go-trackbot/internal/logger"
	"github.com/hazadus/go-trackbot/internal/mirror"
	"github.com/hazadus/go-trackbot/internal/resolver"
	"github.com/hazadus/go-trackbot/internal/session"
	"github.com/hazadus/go-trackbot/internal/store"
)

const defaultConfigPath = "~/.trackbot"

// Application связывает конфигурацию и сервисы, нужные командам
type Application struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *store.Store
	Sessions *session.Store
	Library  *library.Service
}

// newApplication собирает приложение: конфигурация, журнал, хранилище,
// резолвер и сервис плейлистов
func newApplication() (*Application, error) {
	// Переменные окружения из .env, если файл есть
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	zapLogger, err := logger.New(logger.Options{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка настройки журнала: %w", err)
	}

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории кэша: %w", err)
	}

	trackStore, err := store.New(cfg.TracksFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия хранилища треков: %w", err)
	}

	youtubeResolver := resolver.New(resolver.Options{
		CookiesFile: cfg.CookiesFile,
		FFmpegPath:  cfg.FFmpegPath,
		Logger:      zapLogger,
	})

	var trackMirror *mirror.Mirror
	if cfg.S3.Enabled {
		trackMirror, err = mirror.New(&mirror.Config{
			Region:     cfg.S3.Region,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			Endpoint:   cfg.S3.Endpoint,
			BucketName: cfg.S3.BucketName,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка настройки зеркала S3: %w", err)
		}
	}

	libraryService := library.NewService(library.Options{
		Resolver:       youtubeResolver,
		Store:          trackStore,
		Mirror:         trackMirror,
		Logger:         zapLogger,
		CacheDir:       cfg.CacheDir,
		MaxFileSize:    cfg.MaxFileSizeBytes(),
		Workers:        cfg.DownloadWorkers,
		ResolveTimeout: cfg.ResolverTimeout(),
		BatchSize:      cfg.BatchSize,
	})

	return &Application{
		Config:   cfg,
		Logger:   zapLogger,
		Store:    trackStore,
		Sessions: session.NewStore(),
		Library:  libraryService,
	}, nil
}

func main() {
	app, err := newApplication()
	if err != nil {
		log.Fatalf("Ошибка запуска: %v", err)
	}
	defer func() { _ = app.Logger.Sync() }()

	rootCmd := app.createRootCommand(context.Background())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
