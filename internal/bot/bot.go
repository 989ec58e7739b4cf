// Package bot связывает сессии, сервис плейлистов и транспорт доставки
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/go-trackbot/internal/library"
	"github.com/hazadus/go-trackbot/internal/session"
)

// Library — операции сервиса плейлистов, нужные боту
type Library interface {
	Search(ctx context.Context, query string) ([]library.Candidate, error)
	Download(ctx context.Context, candidateID, userID string) (*library.TrackEntry, error)
	Deliver(userID string) (*library.Batches, error)
}

// Adapter — исходящая сторона транспорта. Бот решает, что и когда
// отправить, адаптер знает, как это выглядит в конкретном канале.
type Adapter interface {
	// SearchResults показывает пользователю кандидатов на выбор
	SearchResults(ctx context.Context, userID string, candidates []library.Candidate) error
	// DownloadResult сообщает итог скачивания: либо запись, либо ошибка
	DownloadResult(ctx context.Context, userID string, entry *library.TrackEntry, err error) error
	// SendTrack отправляет пользователю один трек из плейлиста
	SendTrack(ctx context.Context, userID string, entry library.TrackEntry) error
	// Notify отправляет пользователю служебное сообщение
	Notify(ctx context.Context, userID, text string) error
}

// Options параметры создания бота
type Options struct {
	Library    Library
	Sessions   *session.Store
	Adapter    Adapter
	Logger     *zap.Logger
	ItemDelay  time.Duration // Пауза между треками внутри порции
	BatchDelay time.Duration // Пауза между порциями
}

// Bot обрабатывает входящие события пользователей: запрос поиска,
// текст запроса, выбор кандидата и запрос всего плейлиста
type Bot struct {
	library    Library
	sessions   *session.Store
	adapter    Adapter
	logger     *zap.Logger
	itemDelay  time.Duration
	batchDelay time.Duration
}

// New создает бота
func New(opts Options) *Bot {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Bot{
		library:    opts.Library,
		sessions:   opts.Sessions,
		adapter:    opts.Adapter,
		logger:     opts.Logger,
		itemDelay:  opts.ItemDelay,
		batchDelay: opts.BatchDelay,
	}
}

// HandleSearchRequest переводит пользователя в режим ожидания запроса
func (b *Bot) HandleSearchRequest(ctx context.Context, userID string) error {
	b.sessions.BeginSearch(userID)
	return b.adapter.Notify(ctx, userID, "Введите название трека для поиска")
}

// HandleMessage обрабатывает текстовое сообщение. Возвращает false,
// если бот не ждал от пользователя поисковый запрос: такое сообщение
// вызывающая сторона обрабатывает сама.
func (b *Bot) HandleMessage(ctx context.Context, userID, text string) (bool, error) {
	if !b.sessions.TakeQuery(userID) {
		return false, nil
	}

	candidates, err := b.library.Search(ctx, text)
	if err != nil {
		b.logger.Warn("поиск не удался",
			zap.String("user_id", userID),
			zap.Error(err))
		return true, b.adapter.Notify(ctx, userID, UserMessage(err))
	}
	if len(candidates) == 0 {
		return true, b.adapter.Notify(ctx, userID, "Ничего не найдено, попробуйте другой запрос")
	}

	return true, b.adapter.SearchResults(ctx, userID, candidates)
}

// HandleSelection скачивает выбранного кандидата и сообщает итог
func (b *Bot) HandleSelection(ctx context.Context, userID, candidateID string) error {
	entry, err := b.library.Download(ctx, candidateID, userID)
	if err != nil {
		b.logger.Warn("скачивание не удалось",
			zap.String("user_id", userID),
			zap.String("candidate_id", candidateID),
			zap.Error(err))
	}
	return b.adapter.DownloadResult(ctx, userID, entry, err)
}

// HandleLibraryRequest отправляет пользователю весь его плейлист
// порциями с паузами. Сбой отправки одного трека не прерывает выдачу:
// трек пропускается, остальные уходят.
func (b *Bot) HandleLibraryRequest(ctx context.Context, userID string) error {
	batches, err := b.library.Deliver(userID)
	if err != nil {
		return b.adapter.Notify(ctx, userID, UserMessage(err))
	}
	if batches.Total() == 0 {
		return b.adapter.Notify(ctx, userID, "Ваш плейлист пуст")
	}

	var failed int
	first := true
	for {
		batch, ok := batches.Next()
		if !ok {
			break
		}
		if !first {
			if err := sleep(ctx, b.batchDelay); err != nil {
				return err
			}
		}
		first = false

		for i, entry := range batch {
			if i > 0 {
				if err := sleep(ctx, b.itemDelay); err != nil {
					return err
				}
			}
			if err := b.adapter.SendTrack(ctx, userID, entry); err != nil {
				failed++
				b.logger.Warn("трек не отправлен",
					zap.String("user_id", userID),
					zap.Error(&library.DeliveryError{Path: entry.Path, Err: err}))
				// Сообщаем, какой именно трек не дошел, и продолжаем выдачу
				if nerr := b.adapter.Notify(ctx, userID,
					fmt.Sprintf("Не удалось отправить трек: %s", entry.Title)); nerr != nil {
					return nerr
				}
			}
		}
	}

	if failed > 0 {
		return b.adapter.Notify(ctx, userID,
			fmt.Sprintf("Не удалось отправить треков: %d", failed))
	}
	return nil
}

// UserMessage переводит ошибку сервиса в сообщение для пользователя
func UserMessage(err error) string {
	var tooLarge *library.FileTooLargeError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("Файл слишком большой: %d МБ при лимите %d МБ",
			tooLarge.SizeBytes/(1024*1024), tooLarge.LimitBytes/(1024*1024))
	}

	var resolve *library.ResolveError
	if errors.As(err, &resolve) {
		if resolve.Reason == "timeout" {
			return "Не успели скачать трек, попробуйте еще раз"
		}
		return "Не удалось обработать трек, попробуйте другой"
	}

	var persist *library.PersistError
	if errors.As(err, &persist) {
		return "Не удалось сохранить плейлист, попробуйте позже"
	}

	return "Что-то пошло не так, попробуйте позже"
}

// sleep ждет заданное время, но прерывается по отмене контекста
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
