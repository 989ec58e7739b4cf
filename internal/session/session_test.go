package session

import "testing"

func TestInitialStateIsIdle(t *testing.T) {
	s := NewStore()

	if s.State("user") != Idle {
		t.Error("Новый пользователь должен быть в состоянии Idle")
	}
}

func TestBeginSearch(t *testing.T) {
	s := NewStore()

	s.BeginSearch("user")
	if s.State("user") != AwaitingQuery {
		t.Error("После BeginSearch ожидалось состояние AwaitingQuery")
	}

	// Состояния пользователей независимы
	if s.State("other") != Idle {
		t.Error("Состояние другого пользователя не должно меняться")
	}
}

func TestTakeQueryConsumesState(t *testing.T) {
	s := NewStore()
	s.BeginSearch("user")

	if !s.TakeQuery("user") {
		t.Error("TakeQuery должен вернуть true для ожидающего пользователя")
	}
	if s.State("user") != Idle {
		t.Error("После TakeQuery состояние должно сброситься в Idle")
	}

	// Повторный вызов — уже false: запрос потреблен
	if s.TakeQuery("user") {
		t.Error("Повторный TakeQuery должен вернуть false")
	}
}

func TestTakeQueryWhenIdle(t *testing.T) {
	s := NewStore()

	if s.TakeQuery("user") {
		t.Error("TakeQuery без BeginSearch должен вернуть false")
	}
}

func TestReset(t *testing.T) {
	s := NewStore()
	s.BeginSearch("user")

	s.Reset("user")
	if s.State("user") != Idle {
		t.Error("После Reset ожидалось состояние Idle")
	}
}
