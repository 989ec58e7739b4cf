package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// makeTrackFile создает пустой файл трека и возвращает его путь
func makeTrackFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("mp3"), 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}
	return path
}

func TestRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	tracksFile := filepath.Join(tempDir, "tracks.yaml")

	s, err := New(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка создания хранилища: %v", err)
	}

	// Пути с кириллицей должны пережить сохранение и загрузку без потерь
	path1 := makeTrackFile(t, tempDir, "Моя музыка — трек №1.mp3")
	path2 := makeTrackFile(t, tempDir, "Ещё один трек.mp3")

	if err := s.Append("12345", path1); err != nil {
		t.Fatalf("Ошибка добавления трека: %v", err)
	}
	if err := s.Append("12345", path2); err != nil {
		t.Fatalf("Ошибка добавления трека: %v", err)
	}

	// Загружаем хранилище заново из того же файла
	s2, err := New(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка повторной загрузки: %v", err)
	}

	tracks := s2.UserTracks("12345")
	if len(tracks) != 2 {
		t.Fatalf("Ожидалось 2 трека, получено %d", len(tracks))
	}
	if tracks[0] != path1 || tracks[1] != path2 {
		t.Errorf("Порядок или содержимое треков не сохранились: %v", tracks)
	}
}

func TestLoadMissingFile(t *testing.T) {
	tracksFile := filepath.Join(t.TempDir(), "no_such_tracks.yaml")

	s, err := New(tracksFile)
	if err != nil {
		t.Fatalf("Отсутствующий файл не должен быть ошибкой: %v", err)
	}
	if len(s.UserTracks("1")) != 0 {
		t.Error("Ожидалось пустое хранилище")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	tempDir := t.TempDir()
	tracksFile := filepath.Join(tempDir, "tracks.yaml")

	// Пишем заведомо некорректный YAML
	if err := os.WriteFile(tracksFile, []byte("{не yaml: ["), 0644); err != nil {
		t.Fatalf("Ошибка записи файла: %v", err)
	}

	s, err := New(tracksFile)
	if err != nil {
		t.Fatalf("Испорченный файл не должен быть ошибкой: %v", err)
	}
	if len(s.UserTracks("1")) != 0 {
		t.Error("Ожидалось пустое хранилище после испорченного файла")
	}
}

func TestAppendOrder(t *testing.T) {
	tempDir := t.TempDir()
	s, err := New(filepath.Join(tempDir, "tracks.yaml"))
	if err != nil {
		t.Fatalf("Ошибка создания хранилища: %v", err)
	}

	paths := []string{
		makeTrackFile(t, tempDir, "a.mp3"),
		makeTrackFile(t, tempDir, "b.mp3"),
		makeTrackFile(t, tempDir, "a.mp3.copy"),
	}
	for _, p := range paths {
		if err := s.Append("user", p); err != nil {
			t.Fatalf("Ошибка добавления: %v", err)
		}
	}

	got := s.UserTracks("user")
	if len(got) != 3 {
		t.Fatalf("Ожидалось 3 трека, получено %d", len(got))
	}
	for i, p := range paths {
		if got[i] != p {
			t.Errorf("Позиция %d: ожидалось %s, получено %s", i, p, got[i])
		}
	}
}

func TestAppendAllowsDuplicates(t *testing.T) {
	tempDir := t.TempDir()
	s, err := New(filepath.Join(tempDir, "tracks.yaml"))
	if err != nil {
		t.Fatalf("Ошибка создания хранилища: %v", err)
	}

	path := makeTrackFile(t, tempDir, "track.mp3")
	if err := s.Append("user", path); err != nil {
		t.Fatalf("Ошибка добавления: %v", err)
	}
	if err := s.Append("user", path); err != nil {
		t.Fatalf("Ошибка добавления дубликата: %v", err)
	}

	// Повторное скачивание добавляет вторую запись — это ожидаемое поведение
	if got := s.UserTracks("user"); len(got) != 2 {
		t.Errorf("Ожидалось 2 записи с одинаковым путем, получено %d", len(got))
	}
}

func TestPruneMissing(t *testing.T) {
	tempDir := t.TempDir()
	tracksFile := filepath.Join(tempDir, "tracks.yaml")
	s, err := New(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка создания хранилища: %v", err)
	}

	keep := makeTrackFile(t, tempDir, "keep.mp3")
	gone := makeTrackFile(t, tempDir, "gone.mp3")
	if err := s.Append("user", keep); err != nil {
		t.Fatalf("Ошибка добавления: %v", err)
	}
	if err := s.Append("user", gone); err != nil {
		t.Fatalf("Ошибка добавления: %v", err)
	}

	// Удаляем один файл с диска
	if err := os.Remove(gone); err != nil {
		t.Fatalf("Ошибка удаления файла: %v", err)
	}

	got, err := s.PruneMissing("user")
	if err != nil {
		t.Fatalf("Ошибка очистки: %v", err)
	}
	if len(got) != 1 || got[0] != keep {
		t.Errorf("Ожидался только существующий трек, получено: %v", got)
	}

	// Очистка должна сразу сохраниться на диск
	s2, err := New(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка повторной загрузки: %v", err)
	}
	if got := s2.UserTracks("user"); len(got) != 1 {
		t.Errorf("Очистка не сохранилась: %v", got)
	}
}

func TestPruneMissingIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	tracksFile := filepath.Join(tempDir, "tracks.yaml")
	s, err := New(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка создания хранилища: %v", err)
	}

	keep := makeTrackFile(t, tempDir, "keep.mp3")
	gone := makeTrackFile(t, tempDir, "gone.mp3")
	_ = s.Append("user", keep)
	_ = s.Append("user", gone)
	_ = os.Remove(gone)

	first, err := s.PruneMissing("user")
	if err != nil {
		t.Fatalf("Ошибка первой очистки: %v", err)
	}

	info, err := os.Stat(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка чтения информации о файле: %v", err)
	}
	mtime := info.ModTime()

	// Вторая очистка без изменений на диске не должна перезаписывать файл
	time.Sleep(20 * time.Millisecond)
	second, err := s.PruneMissing("user")
	if err != nil {
		t.Fatalf("Ошибка второй очистки: %v", err)
	}

	if len(first) != len(second) {
		t.Errorf("Результаты очисток различаются: %v и %v", first, second)
	}

	info2, err := os.Stat(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка чтения информации о файле: %v", err)
	}
	if !info2.ModTime().Equal(mtime) {
		t.Error("Повторная очистка перезаписала файл без необходимости")
	}
}

func TestSaveKeepsPreviousFileOnFailure(t *testing.T) {
	tempDir := t.TempDir()
	tracksFile := filepath.Join(tempDir, "tracks.yaml")
	s, err := New(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка создания хранилища: %v", err)
	}

	path := makeTrackFile(t, tempDir, "track.mp3")
	if err := s.Append("user", path); err != nil {
		t.Fatalf("Ошибка добавления: %v", err)
	}
	saved, err := os.ReadFile(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка чтения файла треков: %v", err)
	}

	// Запрещаем запись в директорию: временный файл создать не удастся
	if err := os.Chmod(tempDir, 0555); err != nil {
		t.Fatalf("Ошибка изменения прав: %v", err)
	}
	defer os.Chmod(tempDir, 0755)

	if err := s.Append("user", path); err == nil {
		t.Error("Ожидалась ошибка сохранения при недоступной директории")
	}

	// Прежний файл должен остаться нетронутым
	after, err := os.ReadFile(tracksFile)
	if err != nil {
		t.Fatalf("Ошибка чтения файла треков: %v", err)
	}
	if string(after) != string(saved) {
		t.Error("Сбой записи повредил прежний файл")
	}

	// Память не должна разойтись с диском: запись откатилась
	if got := s.UserTracks("user"); len(got) != 1 {
		t.Errorf("Ожидался откат добавления, в памяти %d записей", len(got))
	}
}

func TestRemove(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tracks.yaml")
	s, err := New(filePath)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	for _, p := range []string{"/cache/a.mp3", "/cache/b.mp3", "/cache/a.mp3"} {
		if err := s.Append("user1", p); err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
	}

	removed, err := s.Remove("user1", "/cache/a.mp3")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !removed {
		t.Fatal("запись не удалена")
	}

	// Удаляется только первое вхождение
	got := s.UserTracks("user1")
	want := []string{"/cache/b.mp3", "/cache/a.mp3"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("плейлист после удаления: %v, ожидалось %v", got, want)
	}

	// Удаление сохраняется на диске
	reloaded, err := New(filePath)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(reloaded.UserTracks("user1")) != 2 {
		t.Error("удаление не сохранено в файле")
	}
}

func TestRemoveAbsent(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tracks.yaml")
	s, err := New(filePath)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	removed, err := s.Remove("user1", "/cache/нет.mp3")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if removed {
		t.Error("удалена несуществующая запись")
	}
}
