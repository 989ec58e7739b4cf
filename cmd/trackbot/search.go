package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createSearchCommand создает команду search с привязкой к экземпляру приложения
func (app *Application) createSearchCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "search [запрос]",
		Short: "Найти треки на YouTube",
		Long:  `Поиск треков на YouTube по текстовому запросу. Показывает до пяти кандидатов.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.searchTracks(ctx, joinQuery(args))
		},
	}
}

func (app *Application) searchTracks(ctx context.Context, query string) error {
	candidates, err := app.Library.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("🔍 Ничего не найдено, попробуйте другой запрос")
		return nil
	}

	fmt.Printf("🔍 Найдено кандидатов: %d\n\n", len(candidates))
	for i, c := range candidates {
		fmt.Printf("%d. %s\n   ID: %s\n", i+1, c.Title, c.ID)
	}
	fmt.Println()
	fmt.Println("💡 Используйте 'trackbot download [ID] --user [пользователь]' для скачивания")
	return nil
}
