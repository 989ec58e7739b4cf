package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hazadus/go-trackbot/internal/config"
	"github.com/hazadus/go-trackbot/internal/library"
	"github.com/hazadus/go-trackbot/internal/session"
	"github.com/hazadus/go-trackbot/internal/store"
)

// captureOutput перехватывает stdout и stderr во время выполнения функции
func captureOutput(t *testing.T, fn func()) string {
	// Сохраняем оригинальные stdout и stderr
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Ошибка создания pipe: %v", err)
	}

	os.Stdout = w
	os.Stderr = w

	fn()

	os.Stdout = oldStdout
	os.Stderr = oldStderr
	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Ошибка чтения результата: %v", err)
	}

	return buf.String()
}

// createTestApplication создает тестовое приложение с временными данными
func createTestApplication(t *testing.T, tempDir string) *Application {
	t.Helper()

	trackStore, err := store.New(filepath.Join(tempDir, "tracks.yaml"))
	if err != nil {
		t.Fatalf("Ошибка создания хранилища: %v", err)
	}

	cfg := &config.Config{
		CacheDir:     tempDir,
		SendDelayMs:  1,
		BatchDelayMs: 1,
		BatchSize:    10,
	}

	return &Application{
		Config:   cfg,
		Logger:   zap.NewNop(),
		Store:    trackStore,
		Sessions: session.NewStore(),
		Library: library.NewService(library.Options{
			Store:    trackStore,
			CacheDir: tempDir,
		}),
	}
}

// addTestTrack кладет файл в кэш и регистрирует его в плейлисте
func addTestTrack(t *testing.T, app *Application, userID, name string) string {
	t.Helper()

	path := filepath.Join(app.Config.CacheDir, name)
	if err := os.WriteFile(path, []byte("mp3"), 0644); err != nil {
		t.Fatalf("Ошибка создания файла: %v", err)
	}
	if err := app.Store.Append(userID, path); err != nil {
		t.Fatalf("Ошибка добавления трека: %v", err)
	}
	return path
}

// TestCmdList проверяет, что команда `list` корректно выводит плейлист
func TestCmdList(t *testing.T) {
	tempDir := t.TempDir()
	app := createTestApplication(t, tempDir)

	addTestTrack(t, app, "local", "Кино - Пачка сигарет.mp3")

	listCmd := app.createListCommand()
	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	expectedStrings := []string{
		"Треков в плейлисте local: 1",
		"Кино - Пачка сигарет",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды list не содержит '%s': %s", expected, output)
		}
	}
}

// TestCmdListEmpty проверяет, что команда `list` корректно обрабатывает пустой плейлист
func TestCmdListEmpty(t *testing.T) {
	tempDir := t.TempDir()
	app := createTestApplication(t, tempDir)

	listCmd := app.createListCommand()
	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	if !strings.Contains(output, "Плейлист пуст") {
		t.Errorf("Нет сообщения о пустом плейлисте: %s", output)
	}
}

// TestCmdPrune проверяет, что команда `prune` убирает записи без файлов
func TestCmdPrune(t *testing.T) {
	tempDir := t.TempDir()
	app := createTestApplication(t, tempDir)

	addTestTrack(t, app, "local", "остался.mp3")
	gone := addTestTrack(t, app, "local", "пропал.mp3")
	if err := os.Remove(gone); err != nil {
		t.Fatalf("Ошибка удаления файла: %v", err)
	}

	pruneCmd := app.createPruneCommand()
	output := captureOutput(t, func() {
		pruneCmd.SetArgs([]string{})
		if err := pruneCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды prune: %v", err)
		}
	})

	if !strings.Contains(output, "Убрано записей без файлов: 1") {
		t.Errorf("Неверная сводка prune: %s", output)
	}
	if len(app.Store.UserTracks("local")) != 1 {
		t.Error("Запись без файла осталась в хранилище")
	}
}

// TestCmdSend проверяет, что команда `send` выдает весь плейлист
func TestCmdSend(t *testing.T) {
	tempDir := t.TempDir()
	app := createTestApplication(t, tempDir)

	addTestTrack(t, app, "local", "первый.mp3")
	addTestTrack(t, app, "local", "второй.mp3")

	sendCmd := app.createSendCommand(context.Background())
	output := captureOutput(t, func() {
		sendCmd.SetArgs([]string{})
		if err := sendCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды send: %v", err)
		}
	})

	for _, expected := range []string{"первый", "второй"} {
		if !strings.Contains(output, expected) {
			t.Errorf("Трек '%s' не выдан: %s", expected, output)
		}
	}
}

// TestExtractVideoID проверяет разбор разных форматов YouTube URL
func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", true},
		{"мусор", "", true},
	}

	for _, tt := range tests {
		got, err := extractVideoID(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("extractVideoID(%q): err=%v, wantErr=%v", tt.url, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("extractVideoID(%q) = %q, ожидалось %q", tt.url, got, tt.want)
		}
	}
}

func TestJoinQuery(t *testing.T) {
	if got := joinQuery([]string{"группа", "крови"}); got != "группа крови" {
		t.Errorf("joinQuery = %q", got)
	}
}
