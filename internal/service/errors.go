package service

import "fmt"

// Коды бизнес-ошибок. Сопоставление с HTTP-статусами живёт на границе
// запроса, в handlers.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeAuth                = "AUTH_ERROR"
	CodeUpstreamAuthExpired = "UPSTREAM_AUTH_EXPIRED"
	CodeUpstream            = "UPSTREAM_ERROR"
	CodeAnalysisUnavailable = "ANALYSIS_UNAVAILABLE"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

type Detail struct {
	Key     string
	Payload any
}

func ToDetail(key string, payload any) Detail {
	return Detail{Key: key, Payload: payload}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource string, id int64) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("%s %d не найден(а)", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation,
		fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

// NewAuthError намеренно не уточняет причину: «нет такого пользователя»,
// «неверный пароль» и «токен валиден, но пользователь удалён» снаружи
// выглядят одинаково.
func NewAuthError() *BusinessError {
	return NewBusinessError(CodeAuth, "Неверные учётные данные или токен")
}
