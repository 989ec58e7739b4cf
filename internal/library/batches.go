package library

// Batches лениво выдает плейлист порциями фиксированного размера.
// Последовательность конечна и перезапускаема через Reset.
type Batches struct {
	entries []TrackEntry
	size    int
	pos     int
}

// NewBatches оборачивает готовый список записей в порционную выдачу
func NewBatches(entries []TrackEntry, size int) *Batches {
	if size <= 0 {
		size = 10
	}
	return &Batches{entries: entries, size: size}
}

// Next возвращает следующую порцию. Второе значение false, когда
// порции закончились.
func (b *Batches) Next() ([]TrackEntry, bool) {
	if b.pos >= len(b.entries) {
		return nil, false
	}

	end := b.pos + b.size
	if end > len(b.entries) {
		end = len(b.entries)
	}
	batch := b.entries[b.pos:end]
	b.pos = end
	return batch, true
}

// Reset перезапускает выдачу с первой порции
func (b *Batches) Reset() {
	b.pos = 0
}

// Total возвращает общее число треков
func (b *Batches) Total() int {
	return len(b.entries)
}

// Count возвращает число порций
func (b *Batches) Count() int {
	if len(b.entries) == 0 {
		return 0
	}
	return (len(b.entries) + b.size - 1) / b.size
}
