// Package apperr описывает ошибки уровня операций.
// Каждая ошибка имеет вид (Kind) и стабильный код, по которому
// транспортный слой выбирает HTTP статус и текст ответа.
package apperr

import (
	"errors"
	"fmt"
)

// Kind категория ошибки
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindAuth          Kind = "auth"
	KindNotFound      Kind = "not_found"
	KindStore         Kind = "store"
	KindValidation    Kind = "validation"
)

// Error ошибка операции
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по коду, чтобы параметризованные ошибки
// (например, DestinationNotFound("Smith")) совпадали со своим sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrNotConfigured = &Error{Kind: KindConfiguration, Code: "not_configured",
		Message: "Spreadsheet ID not configured. Set SPREADSHEET_ID or sheets.spreadsheet_id."}

	ErrInvalidDomain = &Error{Kind: KindAuth, Code: "invalid_domain",
		Message: "Please use your school email address."}
	ErrNotAuthorized = &Error{Kind: KindAuth, Code: "not_authorized",
		Message: "Email not found in the teacher list or the student roster. Please contact your teacher if you believe this is an error."}
	ErrNoSession = &Error{Kind: KindAuth, Code: "no_session",
		Message: "No valid session found"}
	ErrSessionExpired = &Error{Kind: KindAuth, Code: "session_expired",
		Message: "Session expired"}
	ErrWrongRole = &Error{Kind: KindAuth, Code: "wrong_role",
		Message: "Access denied for this user type"}
	ErrDomainRevoked = &Error{Kind: KindAuth, Code: "domain_revoked",
		Message: "Invalid domain - session terminated"}

	ErrTableNotFound = &Error{Kind: KindNotFound, Code: "table_not_found",
		Message: "Proficiency sheet not found"}
	ErrDestinationNotFound = &Error{Kind: KindNotFound, Code: "destination_not_found",
		Message: "Proficiency sheet not found"}

	ErrStore = &Error{Kind: KindStore, Code: "store",
		Message: "Spreadsheet error"}
	ErrInvalidArgument = &Error{Kind: KindValidation, Code: "invalid_argument",
		Message: "Invalid argument"}
)

// TableNotFound ошибка отсутствия таблицы прогресса для учителя
func TableNotFound(teacher string) error {
	return &Error{Kind: KindNotFound, Code: ErrTableNotFound.Code,
		Message: "Proficiency sheet not found for teacher: " + teacher}
}

// DestinationNotFound ошибка отсутствия таблицы для записи результата
func DestinationNotFound(teacher string) error {
	return &Error{Kind: KindNotFound, Code: ErrDestinationNotFound.Code,
		Message: "Proficiency sheet not found for teacher: " + teacher}
}

// InvalidArgument ошибка валидации входных данных
func InvalidArgument(msg string) error {
	return &Error{Kind: KindValidation, Code: ErrInvalidArgument.Code, Message: msg}
}

// Store оборачивает ошибку ввода-вывода хранилища.
// Ошибки, уже являющиеся *Error, возвращаются как есть.
func Store(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindStore, Code: ErrStore.Code, Message: ErrStore.Message, Err: err}
}

// KindOf возвращает вид ошибки; для посторонних ошибок — KindStore.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// CodeOf возвращает код ошибки или "internal".
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "internal"
}
