// Package tui содержит текстовый интерфейс просмотра плейлиста пользователя
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-trackbot/internal/store"
)

// App представляет TUI приложение просмотра плейлиста
type App struct {
	store  *store.Store
	userID string
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(trackStore *store.Store, userID string) *App {
	return &App{
		store:  trackStore,
		userID: userID,
	}
}

// Run запускает TUI приложение
func (app *App) Run() error {
	model := NewModel(app.store, app.userID)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
