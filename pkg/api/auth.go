// Package api содержит формы запросов и JSON ответы HTTP API,
// общие для сервера и клиента.
package api

// Имена полей форм и cookie
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldResetToken  = "reset_token"
	FieldNewPassword = "new_password"

	SessionCookieName = "session_id"
)

// Тексты ответов
const (
	MessageWelcome         = "Bienvenue"
	MessageUserCreated     = "user created"
	MessageLoggedIn        = "logged in"
	MessagePasswordUpdated = "Password updated"
	MessageEmailRegistered = "email already registered"

	MessageInvalidCredentials = "invalid credentials"
	MessageInvalidSession     = "invalid session"
	MessageInvalidResetToken  = "invalid reset token"
	MessageUnknownEmail       = "email not registered"
	MessageInternalError      = "internal server error"
)

// MessageResponse представляет ответ с одним сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse представляет ответ на регистрацию, вход и смену пароля
type UserResponse struct {
	Email   string `json:"email"`   // email пользователя
	Message string `json:"message"` // подтверждение операции
}

// ProfileResponse представляет ответ GET /profile
type ProfileResponse struct {
	Email string `json:"email"`
}

// ResetTokenResponse представляет ответ на запрос сброса пароля
type ResetTokenResponse struct {
	Email      string `json:"email"`       // email пользователя
	ResetToken string `json:"reset_token"` // одноразовый токен сброса
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
