package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-trackbot/internal/bot"
	"github.com/hazadus/go-trackbot/internal/library"
)

// createSendCommand создает команду send с привязкой к экземпляру приложения
func (app *Application) createSendCommand(ctx context.Context) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Выдать плейлист пользователя порциями",
		Long:  `Выводит плейлист пользователя порциями с паузами, как при отправке в мессенджер.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.sendTracks(ctx, userID)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "local", "Пользователь, чей плейлист выдать")

	return cmd
}

func (app *Application) sendTracks(ctx context.Context, userID string) error {
	b := bot.New(bot.Options{
		Library:    app.Library,
		Sessions:   app.Sessions,
		Adapter:    &consoleAdapter{},
		Logger:     app.Logger,
		ItemDelay:  app.Config.SendDelay(),
		BatchDelay: app.Config.BatchDelay(),
	})

	return b.HandleLibraryRequest(ctx, userID)
}

// consoleAdapter выводит исходящие события бота в консоль
type consoleAdapter struct{}

func (a *consoleAdapter) SearchResults(_ context.Context, _ string, candidates []library.Candidate) error {
	for i, c := range candidates {
		fmt.Printf("%d. %s (%s)\n", i+1, c.Title, c.ID)
	}
	return nil
}

func (a *consoleAdapter) DownloadResult(_ context.Context, _ string, entry *library.TrackEntry, err error) error {
	if err != nil {
		fmt.Printf("❌ %s\n", bot.UserMessage(err))
		return nil
	}
	fmt.Printf("✅ %s\n", entry.Title)
	return nil
}

func (a *consoleAdapter) SendTrack(_ context.Context, _ string, entry library.TrackEntry) error {
	fmt.Printf("🎵 %s\n   %s\n", entry.Title, entry.Path)
	return nil
}

func (a *consoleAdapter) Notify(_ context.Context, _ string, text string) error {
	fmt.Println(text)
	return nil
}
