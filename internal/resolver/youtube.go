// Package resolver превращает поисковые запросы и идентификаторы роликов
// YouTube в локальные mp3 файлы
package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/hazadus/go-trackbot/internal/cookies"
	"github.com/hazadus/go-trackbot/internal/library"
)

// Options параметры создания резолвера
type Options struct {
	CookiesFile string // Файл cookies в формате Netscape, может отсутствовать
	FFmpegPath  string
	Logger      *zap.Logger
}

// YouTube скачивает аудио дорожки роликов и перекодирует их в mp3
// с постоянным битрейтом 192 кбит/с
type YouTube struct {
	client     youtube.Client
	httpClient *http.Client
	ffmpegPath string
	logger     *zap.Logger
}

// New создает резолвер. Отсутствующий файл cookies — не ошибка:
// без него недоступны только ролики с ограничениями.
func New(opts Options) *YouTube {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}

	httpClient := &http.Client{}
	if opts.CookiesFile != "" {
		jar, err := cookies.Jar(opts.CookiesFile)
		switch {
		case err == nil:
			httpClient.Jar = jar
		case errors.Is(err, os.ErrNotExist):
			opts.Logger.Info("файл cookies не найден, работаем без него",
				zap.String("path", opts.CookiesFile))
		default:
			opts.Logger.Warn("не удалось загрузить cookies",
				zap.String("path", opts.CookiesFile),
				zap.Error(err))
		}
	}

	return &YouTube{
		client:     youtube.Client{HTTPClient: httpClient},
		httpClient: httpClient,
		ffmpegPath: opts.FFmpegPath,
		logger:     opts.Logger,
	}
}

// ExtractAudio скачивает лучшую аудио дорожку ролика и перекодирует ее
// в mp3 в указанной директории. Имя файла строится из названия ролика
// с коротким суффиксом — одинаковые названия не затирают друг друга.
func (y *YouTube) ExtractAudio(ctx context.Context, id, outDir string) (string, error) {
	video, err := y.client.GetVideoContext(ctx, id)
	if err != nil {
		return "", fmt.Errorf("ошибка получения информации о видео: %w", err)
	}

	format := findBestAudioFormat(video.Formats)
	if format == nil {
		return "", fmt.Errorf("аудио формат не найден для видео %s", id)
	}

	stream, _, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("ошибка получения потока: %w", err)
	}
	defer stream.Close()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории кэша: %w", err)
	}

	base := sanitizeFileName(video.Title) + "-" + uuid.NewString()[:8]
	rawPath := filepath.Join(outDir, base+rawExtension(format.MimeType))
	mp3Path := filepath.Join(outDir, base+".mp3")

	rawFile, err := os.Create(rawPath)
	if err != nil {
		return "", fmt.Errorf("ошибка создания файла: %w", err)
	}
	defer os.Remove(rawPath)

	_, err = io.Copy(rawFile, stream)
	if closeErr := rawFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("ошибка скачивания: %w", err)
	}

	y.logger.Debug("аудио дорожка скачана",
		zap.String("video_id", id),
		zap.String("title", video.Title),
		zap.Int("itag", format.ItagNo))

	if err := y.transcodeToMP3(ctx, rawPath, mp3Path); err != nil {
		_ = os.Remove(mp3Path)
		return "", err
	}
	return mp3Path, nil
}

// transcodeToMP3 перекодирует скачанную дорожку в mp3 через ffmpeg
func (y *YouTube) transcodeToMP3(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-codec:a", "libmp3lame",
		"-b:a", "192k",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, y.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ошибка перекодирования ffmpeg: %w: %s", err, stderr.String())
	}
	return nil
}

// findBestAudioFormat находит лучший аудио формат для скачивания
func findBestAudioFormat(formats youtube.FormatList) *youtube.Format {
	audioFormats := formats.WithAudioChannels()

	if len(audioFormats) == 0 {
		return nil
	}

	best := &audioFormats[0]
	for i := range audioFormats {
		format := &audioFormats[i]

		// Предпочитаем форматы с более высоким битрейтом
		if format.Bitrate > best.Bitrate {
			best = format
		}

		// M4A/MP4 дорожки декодируются надежнее
		if strings.Contains(format.MimeType, "mp4") || strings.Contains(format.MimeType, "m4a") {
			if !strings.Contains(best.MimeType, "mp4") && !strings.Contains(best.MimeType, "m4a") {
				best = format
			}
		}
	}
	return best
}

// rawExtension подбирает расширение для сырой дорожки по MIME-типу
func rawExtension(mimeType string) string {
	if strings.Contains(mimeType, "webm") {
		return ".webm"
	}
	return ".m4a"
}

// sanitizeFileName очищает имя файла от недопустимых символов
func sanitizeFileName(name string) string {
	re := regexp.MustCompile(`[<>:"/\\|?*]`)
	name = re.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)

	// Ограничиваем длину имени файла. Режем по рунам, а не по байтам:
	// кириллическое название нельзя обрывать посреди символа.
	if runes := []rune(name); len(runes) > 150 {
		name = string(runes[:150])
	}
	return name
}

// Проверяем на этапе компиляции, что резолвер реализует контракт сервиса
var _ library.Resolver = (*YouTube)(nil)
