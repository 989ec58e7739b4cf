package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trackbot",
		Short: "Персональная библиотека треков из YouTube",
		Long:  `Поиск треков на YouTube, скачивание в mp3 и ведение плейлистов пользователей.`,
	}

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createSearchCommand(ctx))
	rootCmd.AddCommand(app.createDownloadCommand(ctx))
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createSendCommand(ctx))
	rootCmd.AddCommand(app.createPruneCommand())
	rootCmd.AddCommand(app.createTUICommand())

	return rootCmd
}
