package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createPruneCommand создает команду prune с привязкой к экземпляру приложения
func (app *Application) createPruneCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Убрать из плейлиста записи без файлов",
		Long:  `Проверяет плейлист пользователя и убирает записи, файлы которых исчезли с диска.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.pruneTracks(userID)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "local", "Пользователь, чей плейлист проверить")

	return cmd
}

func (app *Application) pruneTracks(userID string) error {
	before := len(app.Store.UserTracks(userID))

	entries, err := app.Library.List(userID)
	if err != nil {
		return err
	}

	removed := before - len(entries)
	if removed == 0 {
		fmt.Println("✅ Все файлы плейлиста на месте")
		return nil
	}

	fmt.Printf("🧹 Убрано записей без файлов: %d, осталось треков: %d\n", removed, len(entries))
	return nil
}
