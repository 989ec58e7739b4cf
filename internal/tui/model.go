package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-trackbot/internal/metadata"
	"github.com/hazadus/go-trackbot/internal/store"
	"github.com/hazadus/go-trackbot/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	missingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

// trackItem реализует интерфейс list.Item для записи плейлиста
type trackItem struct {
	path     string
	title    string
	duration string
	missing  bool
}

func (i trackItem) FilterValue() string {
	return i.title
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	// Строка в виде таблицы: Название | Продолжительность
	str := fmt.Sprintf("%-60s %s",
		utils.TruncateString(i.title, 60),
		i.duration)
	if i.missing {
		str = missingStyle.Render(str + "  [файл отсутствует]")
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана плейлиста одного пользователя
type Model struct {
	list     list.Model
	store    *store.Store
	meta     *metadata.Extractor
	userID   string
	quitting bool
	status   string
}

// NewModel создает модель плейлиста
func NewModel(trackStore *store.Store, userID string) *Model {
	m := &Model{
		store:  trackStore,
		meta:   metadata.NewExtractor(),
		userID: userID,
	}

	l := list.New(m.buildItems(), trackItemDelegate{}, 0, 0)
	l.Title = fmt.Sprintf("Плейлист пользователя %s", userID)
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	m.list = l
	return m
}

// buildItems собирает элементы списка из хранилища. Записи с пропавшими
// файлами не скрываются, а помечаются: пользователь сам решает, удалять ли их.
func (m *Model) buildItems() []list.Item {
	paths := m.store.UserTracks(m.userID)

	items := make([]list.Item, len(paths))
	for i, p := range paths {
		item := trackItem{path: p}
		if _, err := os.Stat(p); err != nil {
			item.missing = true
			item.title = m.meta.DisplayTitle(p)
			item.duration = "--:--:--"
		} else {
			info := m.meta.Info(p)
			item.title = info.Title
			item.duration = utils.FormatDuration(info.Duration)
		}
		items[i] = item
	}
	return items
}

// RefreshData обновляет элементы списка без пересоздания модели
func (m *Model) RefreshData() {
	m.list.SetItems(m.buildItems())
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "d":
			// Удаление выбранной записи из плейлиста
			selectedItem := m.list.SelectedItem()
			if item, ok := selectedItem.(trackItem); ok {
				removed, err := m.store.Remove(m.userID, item.path)
				switch {
				case err != nil:
					m.status = fmt.Sprintf("Ошибка удаления: %v", err)
				case removed:
					m.status = fmt.Sprintf("Удалено: %s", item.title)
					m.RefreshData()
				}
			}
			return m, nil

		case "r":
			m.RefreshData()
			m.status = "Список обновлен"
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}

	view := m.list.View()
	if m.status != "" {
		view += "\n" + helpStyle.Render(m.status)
	}
	extraHelp := helpStyle.Render("d: удалить из плейлиста • r: обновить • q: выход")
	return view + "\n" + extraHelp
}
