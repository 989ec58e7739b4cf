package library

import "fmt"

// ResolveError означает, что резолвер не смог найти или скачать трек:
// сеть, закрытый доступ, удаленное видео. Повторов не делаем — решает
// вызывающая сторона.
type ResolveError struct {
	Reason string
	Err    error
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("резолвер: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("резолвер: %s", e.Reason)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// FileTooLargeError означает, что скачанный файл превысил потолок размера.
// Файл к этому моменту уже удален, плейлист не изменен.
type FileTooLargeError struct {
	SizeBytes  int64
	LimitBytes int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("файл слишком большой: %.1f МБ при потолке %.0f МБ",
		float64(e.SizeBytes)/(1024*1024), float64(e.LimitBytes)/(1024*1024))
}

// PersistError означает сбой чтения или записи хранилища плейлистов.
// Операция, вызвавшая сбой, считается проваленной, но прежнее содержимое
// хранилища остается целым.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("хранилище (%s): %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// DeliveryError означает, что один трек из порции не удалось отправить.
// Остальная порция при этом продолжает отправляться.
type DeliveryError struct {
	Path string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("ошибка отправки %s: %v", e.Path, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
