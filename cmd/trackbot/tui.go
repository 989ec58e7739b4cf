package main

import (
	"github.com/spf13/cobra"

	"github.com/hazadus/go-trackbot/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Открыть плейлист в текстовом интерфейсе",
		Long:  `Интерактивный просмотр плейлиста пользователя: фильтрация, пометка пропавших файлов, удаление записей.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.NewApp(app.Store, userID).Run()
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "local", "Пользователь, чей плейлист открыть")

	return cmd
}
