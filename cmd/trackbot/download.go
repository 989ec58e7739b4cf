package main

import (
	"context"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
)

// createDownloadCommand создает команду download с привязкой к экземпляру приложения
func (app *Application) createDownloadCommand(ctx context.Context) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "download [YouTube URL или ID]",
		Short: "Скачать трек и добавить его в плейлист",
		Long:  `Скачивает аудио дорожку ролика, перекодирует в mp3 и добавляет в плейлист пользователя.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.downloadTrack(ctx, args[0], userID)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "local", "Пользователь, в чей плейлист добавить трек")

	return cmd
}

func (app *Application) downloadTrack(ctx context.Context, source, userID string) error {
	videoID, err := extractVideoID(source)
	if err != nil {
		return err
	}

	fmt.Printf("⏬ Скачиваем трек %s для пользователя %s\n", videoID, userID)

	entry, err := app.Library.Download(ctx, videoID, userID)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Трек добавлен в плейлист:\n")
	fmt.Printf("   Название: %s\n", entry.Title)
	fmt.Printf("   Файл: %s\n", entry.Path)
	return nil
}

// extractVideoID извлекает ID видео из различных форматов YouTube URL
func extractVideoID(url string) (string, error) {
	patterns := []string{
		`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`,
		`(?:youtube\.com/embed/)([a-zA-Z0-9_-]{11})`,
		`(?:youtube\.com/v/)([a-zA-Z0-9_-]{11})`,
	}

	for _, pattern := range patterns {
		re := regexp.MustCompile(pattern)
		matches := re.FindStringSubmatch(url)
		if len(matches) > 1 {
			return matches[1], nil
		}
	}

	// Если это просто ID видео (11 символов)
	if len(url) == 11 && regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(url) {
		return url, nil
	}

	return "", fmt.Errorf("не удалось извлечь ID видео из URL: %s", url)
}
