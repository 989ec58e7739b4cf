// Package session содержит состояния диалога поиска для каждого пользователя
package session

import "sync"

// State состояние диалога пользователя
type State int

const (
	// Idle — пользователь ничего не ищет
	Idle State = iota
	// AwaitingQuery — бот ждет от пользователя текст поискового запроса
	AwaitingQuery
)

// Store хранит состояния диалогов. Состояния живут только в памяти:
// после перезапуска пользователю придется заново нажать «Найти трек».
type Store struct {
	mu     sync.Mutex
	states map[string]State
}

// NewStore создает новое хранилище состояний
func NewStore() *Store {
	return &Store{
		states: make(map[string]State),
	}
}

// State возвращает текущее состояние пользователя
func (s *Store) State(userID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

// BeginSearch переводит пользователя в режим ожидания запроса
func (s *Store) BeginSearch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = AwaitingQuery
}

// TakeQuery сообщает, ждал ли бот запрос от пользователя, и сбрасывает
// состояние в Idle. Возвращает false, если пользователь ничего не искал —
// тогда сообщение нужно обработать как обычное.
func (s *Store) TakeQuery(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states[userID] != AwaitingQuery {
		return false
	}
	delete(s.states, userID)
	return true
}

// Reset сбрасывает состояние пользователя в Idle
func (s *Store) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}
