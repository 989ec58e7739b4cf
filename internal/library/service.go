// Package library содержит сервис плейлистов: поиск, скачивание и выдача треков
package library

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/go-trackbot/internal/metadata"
	"github.com/hazadus/go-trackbot/internal/mirror"
	"github.com/hazadus/go-trackbot/internal/store"
)

// SearchLimit — сколько кандидатов показываем пользователю
const SearchLimit = 5

// Candidate — один результат поиска, предлагаемый пользователю
type Candidate struct {
	ID    string
	Title string
}

// TrackEntry — запись о локальном файле трека в плейлисте пользователя
type TrackEntry struct {
	UserID string
	Path   string
	Title  string
}

// Resolver превращает поисковый запрос или идентификатор ролика
// в локальный аудио файл. Реализация живет в пакете resolver.
type Resolver interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
	ExtractAudio(ctx context.Context, id, outDir string) (string, error)
}

// Options параметры создания сервиса
type Options struct {
	Resolver       Resolver
	Store          *store.Store
	Mirror         *mirror.Mirror // nil — зеркалирование выключено
	Logger         *zap.Logger
	CacheDir       string
	MaxFileSize    int64
	Workers        int
	ResolveTimeout time.Duration
	BatchSize      int
}

// Service управляет плейлистами пользователей: ищет треки через резолвер,
// скачивает их с проверкой размера и ведет учет в хранилище
type Service struct {
	resolver       Resolver
	store          *store.Store
	meta           *metadata.Extractor
	mirror         *mirror.Mirror
	logger         *zap.Logger
	cacheDir       string
	maxFileSize    int64
	resolveTimeout time.Duration
	batchSize      int

	// Семафор ограничивает число одновременных скачиваний,
	// чтобы не забивать диск и канал транскодами
	workers chan struct{}

	// Скачивания одного пользователя сериализуются, чтобы циклы
	// load-mutate-save не перемешивались; разные пользователи
	// качают параллельно
	userMuMu sync.Mutex
	userMu   map[string]*sync.Mutex
}

// NewService создает сервис плейлистов
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = 50 * 1024 * 1024
	}
	if opts.ResolveTimeout <= 0 {
		opts.ResolveTimeout = 120 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}

	return &Service{
		resolver:       opts.Resolver,
		store:          opts.Store,
		meta:           metadata.NewExtractor(),
		mirror:         opts.Mirror,
		logger:         opts.Logger,
		cacheDir:       opts.CacheDir,
		maxFileSize:    opts.MaxFileSize,
		resolveTimeout: opts.ResolveTimeout,
		batchSize:      opts.BatchSize,
		workers:        make(chan struct{}, opts.Workers),
		userMu:         make(map[string]*sync.Mutex),
	}
}

// userLock возвращает мьютекс для сериализации операций одного пользователя
func (s *Service) userLock(userID string) *sync.Mutex {
	s.userMuMu.Lock()
	defer s.userMuMu.Unlock()

	mu, ok := s.userMu[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.userMu[userID] = mu
	}
	return mu
}

// Search ищет треки по запросу и возвращает не больше SearchLimit кандидатов.
// Пустой результат — нормальный исход, а не ошибка.
func (s *Service) Search(ctx context.Context, query string) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	candidates, err := s.resolver.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, &ResolveError{Reason: resolveReason(err, "ошибка поиска"), Err: err}
	}
	if len(candidates) > SearchLimit {
		candidates = candidates[:SearchLimit]
	}

	s.logger.Info("поиск выполнен",
		zap.String("query", query),
		zap.Int("results", len(candidates)))
	return candidates, nil
}

// Download скачивает трек по идентификатору кандидата и добавляет его
// в плейлист пользователя. Файл, превысивший потолок размера, удаляется,
// и в плейлист ничего не попадает.
func (s *Service) Download(ctx context.Context, candidateID, userID string) (*TrackEntry, error) {
	// Занимаем слот в пуле скачиваний
	select {
	case s.workers <- struct{}{}:
	case <-ctx.Done():
		return nil, &ResolveError{Reason: resolveReason(ctx.Err(), "отменено"), Err: ctx.Err()}
	}
	defer func() { <-s.workers }()

	rctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	path, err := s.resolver.ExtractAudio(rctx, candidateID, s.cacheDir)
	if err != nil {
		return nil, &ResolveError{Reason: resolveReason(err, "ошибка скачивания"), Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ResolveError{Reason: "скачанный файл недоступен", Err: err}
	}
	if info.Size() > s.maxFileSize {
		// Удаляем файл до записи в плейлист: частичных записей не бывает
		_ = os.Remove(path)
		s.logger.Info("трек отклонен по размеру",
			zap.String("path", path),
			zap.Int64("size", info.Size()),
			zap.Int64("limit", s.maxFileSize))
		return nil, &FileTooLargeError{SizeBytes: info.Size(), LimitBytes: s.maxFileSize}
	}

	mu := s.userLock(userID)
	mu.Lock()
	err = s.store.Append(userID, path)
	mu.Unlock()
	if err != nil {
		return nil, &PersistError{Op: "append", Err: err}
	}

	entry := &TrackEntry{
		UserID: userID,
		Path:   path,
		Title:  s.meta.DisplayTitle(path),
	}

	s.logger.Info("трек добавлен в плейлист",
		zap.String("user_id", userID),
		zap.String("path", path),
		zap.Int64("size", info.Size()))

	// Зеркалирование не влияет на результат скачивания
	if s.mirror != nil {
		if url, err := s.mirror.Upload(ctx, path); err != nil {
			s.logger.Warn("не удалось отзеркалить трек в S3",
				zap.String("path", path),
				zap.Error(err))
		} else {
			s.logger.Info("трек отзеркален в S3", zap.String("url", url))
		}
	}

	return entry, nil
}

// List возвращает плейлист пользователя, предварительно убрав записи,
// файлы которых исчезли с диска
func (s *Service) List(userID string) ([]TrackEntry, error) {
	mu := s.userLock(userID)
	mu.Lock()
	paths, err := s.store.PruneMissing(userID)
	mu.Unlock()
	if err != nil {
		return nil, &PersistError{Op: "prune", Err: err}
	}

	entries := make([]TrackEntry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, TrackEntry{
			UserID: userID,
			Path:   p,
			Title:  s.meta.DisplayTitle(p),
		})
	}
	return entries, nil
}

// Deliver возвращает плейлист пользователя, разбитый на порции для
// отправки. Паузы между треками и порциями — забота вызывающей стороны:
// транспорт сам знает свои лимиты.
func (s *Service) Deliver(userID string) (*Batches, error) {
	entries, err := s.List(userID)
	if err != nil {
		return nil, err
	}
	return &Batches{entries: entries, size: s.batchSize}, nil
}

// resolveReason подбирает человекочитаемую причину сбоя резолвера
func resolveReason(err error, fallback string) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return fallback
}
