package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-trackbot/internal/metadata"
	"github.com/hazadus/go-trackbot/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать плейлист пользователя",
		Long:  `Выводит плейлист пользователя. Записи с пропавшими файлами убираются из плейлиста.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.listTracks(userID)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "local", "Пользователь, чей плейлист показать")

	return cmd
}

func (app *Application) listTracks(userID string) error {
	entries, err := app.Library.List(userID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("📚 Плейлист пуст. Добавьте треки командой 'download'.")
		return nil
	}

	fmt.Printf("📚 Треков в плейлисте %s: %d\n\n", userID, len(entries))

	// Выводим заголовок таблицы
	fmt.Printf("%-4s %-50s %-10s %s\n", "#", "Название", "Время", "Файл")
	fmt.Println(strings.Repeat("-", 110))

	meta := metadata.NewExtractor()
	for i, entry := range entries {
		duration := "N/A"
		if d, err := meta.Duration(entry.Path); err == nil {
			duration = utils.FormatDuration(d)
		}

		fmt.Printf("%-4d %-50s %-10s %s\n",
			i+1,
			utils.TruncateString(entry.Title, 48),
			duration,
			entry.Path)
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'trackbot send' для выдачи плейлиста порциями")
	return nil
}
