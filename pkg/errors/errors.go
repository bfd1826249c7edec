package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrUnauthorized      = fmt.Errorf("неавторизован")

	// Контекст
	ErrOperatorIDNotFoundInContext = fmt.Errorf("OperatorID не найден в контексте запроса")

	// Синхронизация
	ErrChannelClosed = fmt.Errorf("канал изменений закрыт")
	ErrMonitorClosed = fmt.Errorf("монитор уже закрыт")
	ErrNoSnapshot    = fmt.Errorf("снимок данных ещё не загружен")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// FetchError - ошибка чтения или записи в хранилище записей.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("ошибка хранилища (%s): %v", e.Op, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

func NewFetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Op: op, Err: err}
}

// SubscriptionError - канал изменений не смог оформить подписку.
type SubscriptionError struct {
	Table string
	Err   error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("не удалось подписаться на изменения таблицы %s: %v", e.Table, e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }

func NewSubscriptionError(table string, err error) error {
	var se *SubscriptionError
	if errors.As(err, &se) {
		return err
	}
	return &SubscriptionError{Table: table, Err: err}
}

// HttpError несет код ответа, сообщение для пользователя и внутреннюю ошибку для логов.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrBadRequest, nil)
}

func NewInternalError(message string) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message, nil, nil)
}

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
