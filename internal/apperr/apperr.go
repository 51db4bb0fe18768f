package apperr

import (
	"errors"
	"fmt"
)

// Kind — класс бизнес-ошибки. Ошибки хранилища под эти классы не
// попадают: они оборачиваются как есть и трактуются как внутренние.
type Kind int

const (
	KindUnknown Kind = iota
	// Сущность не найдена либо не принадлежит указанному владельцу.
	KindNotFound
	// Конфликт с существующими данными (двойная запись на день, дубль номера).
	KindConflict
	// Запрошенный переход недостижим из текущего статуса.
	KindInvalidTransition
	// Текущее состояние сущности запрещает операцию независимо от цели.
	KindInvalidState
	// Некорректный ввод; обнаруживается до обращения к хранилищу.
	KindValidation
)

// Error — бизнес-ошибка ядра с человекочитаемым сообщением.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...any) error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf возвращает класс ошибки или KindUnknown для небизнесовых ошибок.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is сообщает, относится ли ошибка к данному классу.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
