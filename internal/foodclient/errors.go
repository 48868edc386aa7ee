// errors.go — таксономия ошибок Food API.
// Чтение (list/search) — KindTransport, запись — KindCreate/KindUpdate/KindDelete.
// Сетевая ошибка при записи классифицируется по операции, а не как транспортная.
package foodclient

import (
	"errors"
	"fmt"
)

// Kind — категория ошибки внешнего сервиса.
type Kind int

const (
	// KindTransport — сеть недоступна или non-2xx на чтении.
	KindTransport Kind = iota + 1
	// KindCreate — ошибка создания записи.
	KindCreate
	// KindUpdate — ошибка обновления записи.
	KindUpdate
	// KindDelete — ошибка удаления записи.
	KindDelete
)

// Sentinel-ошибки для errors.Is.
var (
	ErrTransport = errors.New("ошибка транспорта Food API")
	ErrCreate    = errors.New("ошибка создания записи в Food API")
	ErrUpdate    = errors.New("ошибка обновления записи в Food API")
	ErrDelete    = errors.New("ошибка удаления записи в Food API")
)

// String возвращает имя категории.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindCreate:
		return ErrCreate
	case KindUpdate:
		return ErrUpdate
	case KindDelete:
		return ErrDelete
	default:
		return nil
	}
}

// Error — ошибка вызова Food API.
type Error struct {
	// Kind — категория ошибки
	Kind Kind
	// Op — операция клиента (list, search, create, update, delete)
	Op string
	// StatusCode — HTTP-статус ответа; 0, если ответа не было
	StatusCode int
	// Err — исходная ошибка (сеть, декодирование); nil при non-2xx
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: статус %d: %v", e.Kind.sentinel(), e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind.sentinel(), e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s: статус %d", e.Kind.sentinel(), e.Op, e.StatusCode)
	}
}

// Unwrap возвращает исходную ошибку.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is сопоставляет ошибку с sentinel своей категории.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf извлекает категорию ошибки. Для ошибок не из foodclient возвращает (0, false).
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
