// Package mirror зеркалирует принятые треки в S3-совместимое хранилище
package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

// Mirror загружает копии скачанных треков в S3. Зеркало — страховка
// на случай чистки кэша: сам бот отдает файлы только с локального диска.
type Mirror struct {
	uploader *s3manager.Uploader
	config   *Config
}

// New создает новое S3-зеркало
func New(config *Config) (*Mirror, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return &Mirror{
		uploader: s3manager.NewUploader(sess),
		config:   config,
	}, nil
}

// Upload загружает файл трека в бакет под его же именем и возвращает URL копии
func (m *Mirror) Upload(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	key := filepath.Base(filePath)
	_, err = m.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(m.config.BucketName),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки в S3: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", m.config.Endpoint, m.config.BucketName, key)
	return url, nil
}
