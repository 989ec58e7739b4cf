// Package store содержит хранилище плейлистов пользователей
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Store хранит соответствие "пользователь → список путей к трекам"
// и синхронизирует его с файлом на диске. Каждая мутация сразу
// сохраняется, файл — единственный источник истины.
type Store struct {
	mu       sync.Mutex
	filePath string
	fileLock *flock.Flock
	tracks   map[string][]string
}

// New создает хранилище и загружает данные из файла.
// Отсутствующий или испорченный файл — не ошибка: начинаем с пустого
// хранилища. Ошибкой считается только недоступность файла для чтения.
func New(filePath string) (*Store, error) {
	s := &Store{
		filePath: filePath,
		fileLock: flock.New(filePath + ".lock"),
		tracks:   make(map[string][]string),
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла треков: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.tracks); err != nil {
		// Испорченный файл перезапишется при первом сохранении
		s.tracks = make(map[string][]string)
	}
	if s.tracks == nil {
		s.tracks = make(map[string][]string)
	}
	return s, nil
}

// UserTracks возвращает копию списка треков пользователя в порядке добавления
func (s *Store) UserTracks(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, len(s.tracks[userID]))
	copy(paths, s.tracks[userID])
	return paths
}

// Append добавляет путь в конец плейлиста пользователя и сохраняет файл.
// Дубликаты допустимы: повторное скачивание того же трека добавляет
// вторую запись.
func (s *Store) Append(userID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracks[userID] = append(s.tracks[userID], path)
	if err := s.save(); err != nil {
		// Откатываем, чтобы память не разошлась с диском
		s.tracks[userID] = s.tracks[userID][:len(s.tracks[userID])-1]
		return err
	}
	return nil
}

// Remove убирает первую запись с указанным путем из плейлиста
// пользователя и сохраняет файл. Возвращает false, если записи не было.
func (s *Store) Remove(userID, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.tracks[userID]
	idx := -1
	for i, p := range paths {
		if p == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	updated := append(append([]string{}, paths[:idx]...), paths[idx+1:]...)
	if len(updated) == 0 {
		delete(s.tracks, userID)
	} else {
		s.tracks[userID] = updated
	}
	if err := s.save(); err != nil {
		// Откатываем, чтобы память не разошлась с диском
		s.tracks[userID] = paths
		return false, err
	}
	return true, nil
}

// PruneMissing убирает из плейлиста пользователя записи, файлы которых
// исчезли с диска. Если что-то убрали — сохраняем файл; если список
// не изменился, повторной записи не происходит.
func (s *Store) PruneMissing(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.tracks[userID]
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}

	if len(existing) == len(paths) {
		result := make([]string, len(existing))
		copy(result, existing)
		return result, nil
	}

	if len(existing) == 0 {
		delete(s.tracks, userID)
	} else {
		s.tracks[userID] = existing
	}
	if err := s.save(); err != nil {
		return nil, err
	}

	result := make([]string, len(existing))
	copy(result, existing)
	return result, nil
}

// Save принудительно сохраняет текущее состояние
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save пишет данные во временный файл и атомарно подменяет основной.
// При сбое записи прежний файл остается нетронутым.
func (s *Store) save() error {
	data, err := yaml.Marshal(s.tracks)
	if err != nil {
		return fmt.Errorf("ошибка сериализации треков: %w", err)
	}

	// Блокируем файл от других процессов (бот + CLI-команды)
	if err := s.fileLock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки файла треков: %w", err)
	}
	defer func() { _ = s.fileLock.Unlock() }()

	dir := filepath.Dir(s.filePath)
	tmp, err := os.CreateTemp(dir, ".tracks-*.yaml")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи файла треков: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка записи файла треков: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("ошибка записи файла треков: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		return fmt.Errorf("ошибка замены файла треков: %w", err)
	}
	return nil
}
