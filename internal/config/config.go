// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// S3Config содержит настройки зеркалирования треков в S3-хранилище
type S3Config struct {
	Enabled    bool   `yaml:"enabled"`
	Region     string `yaml:"region"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Endpoint   string `yaml:"endpoint"`
	BucketName string `yaml:"bucket_name"`
}

// Config структура для хранения конфигурации приложения
type Config struct {
	CacheDir           string   `yaml:"cache_dir"`            // Директория для скачанных треков
	TracksFile         string   `yaml:"tracks_file"`          // Файл с плейлистами пользователей
	CookiesFile        string   `yaml:"cookies_file"`         // Файл cookies в формате Netscape
	MaxFileSizeMB      int      `yaml:"max_file_size_mb"`     // Потолок размера трека
	DownloadWorkers    int      `yaml:"download_workers"`     // Одновременных скачиваний
	ResolverTimeoutSec int      `yaml:"resolver_timeout_sec"` // Таймаут поиска/скачивания
	BatchSize          int      `yaml:"batch_size"`           // Треков в одной порции при отправке
	SendDelayMs        int      `yaml:"send_delay_ms"`        // Пауза между треками в порции
	BatchDelayMs       int      `yaml:"batch_delay_ms"`       // Пауза между порциями
	FFmpegPath         string   `yaml:"ffmpeg_path"`
	LogFile            string   `yaml:"log_file"`
	LogLevel           string   `yaml:"log_level"`
	S3                 S3Config `yaml:"s3"`
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файл отсутствует, возвращается конфигурация по умолчанию —
// бот должен запускаться и без конфига.
//
// Нулевые числовые значения считаются незаданными и заменяются
// значениями по умолчанию. В частности, явные send_delay_ms: 0 и
// batch_delay_ms: 0 не отключают паузы выдачи: транспортам всегда
// нужен минимальный интервал между отправками.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	// Устанавливаем значения по умолчанию, если они не заданы
	if config.CacheDir == "" {
		config.CacheDir = "cache"
	}
	if config.TracksFile == "" {
		config.TracksFile = "tracks.yaml"
	}
	if config.CookiesFile == "" {
		config.CookiesFile = "cookies.txt"
	}
	if config.MaxFileSizeMB == 0 {
		config.MaxFileSizeMB = 50
	}
	if config.DownloadWorkers == 0 {
		config.DownloadWorkers = 2
	}
	if config.ResolverTimeoutSec == 0 {
		config.ResolverTimeoutSec = 120
	}
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.SendDelayMs == 0 {
		config.SendDelayMs = 400
	}
	if config.BatchDelayMs == 0 {
		config.BatchDelayMs = 2000
	}
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	// Раскрываем тильду в путях
	config.CacheDir = strings.Replace(config.CacheDir, "~", home, 1)
	config.TracksFile = strings.Replace(config.TracksFile, "~", home, 1)
	config.CookiesFile = strings.Replace(config.CookiesFile, "~", home, 1)

	return config, nil
}

// MaxFileSizeBytes возвращает потолок размера файла в байтах
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// ResolverTimeout возвращает таймаут обращения к резолверу
func (c *Config) ResolverTimeout() time.Duration {
	return time.Duration(c.ResolverTimeoutSec) * time.Second
}

// SendDelay возвращает паузу между отправками треков внутри порции
func (c *Config) SendDelay() time.Duration {
	return time.Duration(c.SendDelayMs) * time.Millisecond
}

// BatchDelay возвращает паузу между порциями
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}
