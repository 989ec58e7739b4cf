// Package metadata предоставляет функционал для извлечения метаданных из аудио файлов
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// TrackInfo содержит сведения о локальном файле трека для показа пользователю
type TrackInfo struct {
	Title    string
	Duration time.Duration
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// DisplayTitle возвращает название трека для показа пользователю.
// Сначала пробуем ID3-теги; если их нет или файл не читается,
// используем имя файла без расширения — как делает сам плейлист.
func (e *Extractor) DisplayTitle(filePath string) string {
	file, err := os.Open(filePath)
	if err != nil {
		return titleFromFileName(filePath)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return titleFromFileName(filePath)
	}

	title := strings.TrimSpace(meta.Title())
	if title == "" {
		return titleFromFileName(filePath)
	}
	if artist := strings.TrimSpace(meta.Artist()); artist != "" {
		return artist + " - " + title
	}
	return title
}

// Duration получает длительность MP3 файла
func (e *Extractor) Duration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// Info возвращает название и длительность трека. Нечитаемая длительность
// не ошибка — показываем 0.
func (e *Extractor) Info(filePath string) TrackInfo {
	info := TrackInfo{Title: e.DisplayTitle(filePath)}
	if d, err := e.Duration(filePath); err == nil {
		info.Duration = d
	}
	return info
}

// titleFromFileName возвращает имя файла без расширения
func titleFromFileName(filePath string) string {
	fileName := filepath.Base(filePath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
