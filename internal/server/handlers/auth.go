package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/userauth/internal/models"
	"github.com/iudanet/userauth/internal/server/auth"
	"github.com/iudanet/userauth/internal/server/middleware"
	"github.com/iudanet/userauth/pkg/api"
)

// AuthService - операции фасада авторизации, нужные HTTP слою
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	ValidLogin(ctx context.Context, email, password string) bool
	CreateSession(ctx context.Context, email string) (string, error)
	DestroySession(ctx context.Context, userID string) error
	GetResetPasswordToken(ctx context.Context, email string) (string, error)
	UpdatePassword(ctx context.Context, resetToken, password string) error
}

// EventRecorder учитывает события авторизации в метриках
type EventRecorder interface {
	AuthEvent(event, result string)
}

type noopRecorder struct{}

func (noopRecorder) AuthEvent(string, string) {}

// Результаты событий для метрик
const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultError   = "error"
)

// AuthHandler обрабатывает запросы регистрации, сессий и сброса пароля
type AuthHandler struct {
	logger *slog.Logger
	auth   AuthService
	events EventRecorder
}

// NewAuthHandler создает новый handler для авторизации
// events может быть nil
func NewAuthHandler(logger *slog.Logger, authService AuthService, events EventRecorder) *AuthHandler {
	if events == nil {
		events = noopRecorder{}
	}
	return &AuthHandler{
		logger: logger,
		auth:   authService,
		events: events,
	}
}

// Index обрабатывает GET /
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, api.MessageResponse{Message: api.MessageWelcome}, http.StatusOK)
}

// Register обрабатывает POST /users
// Форма: email, password
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.PostFormValue(api.FieldEmail)
	password := r.PostFormValue(api.FieldPassword)

	user, err := h.auth.Register(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			h.events.AuthEvent("register", resultFailure)
			h.logger.WarnContext(ctx, "user already exists", slog.String("email", email))
			h.sendJSON(w, api.MessageResponse{Message: api.MessageEmailRegistered}, http.StatusBadRequest)
		case errors.Is(err, auth.ErrInvalidInput):
			h.events.AuthEvent("register", resultFailure)
			h.logger.WarnContext(ctx, "invalid registration form", slog.Any("error", err))
			h.sendServiceError(w, err)
		default:
			h.events.AuthEvent("register", resultError)
			h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
			h.sendServiceError(w, err)
		}
		return
	}

	h.events.AuthEvent("register", resultSuccess)

	h.sendJSON(w, api.UserResponse{Email: user.Email, Message: api.MessageUserCreated}, http.StatusOK)
}

// Login обрабатывает POST /sessions
// При успехе выставляет cookie session_id
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.PostFormValue(api.FieldEmail)
	password := r.PostFormValue(api.FieldPassword)

	if !h.auth.ValidLogin(ctx, email, password) {
		h.events.AuthEvent("login", resultFailure)
		h.logger.WarnContext(ctx, "login failed", slog.String("email", email))
		h.sendServiceError(w, auth.ErrInvalidCredentials)
		return
	}

	sessionID, err := h.auth.CreateSession(ctx, email)
	if err != nil {
		h.events.AuthEvent("login", resultError)
		h.logger.ErrorContext(ctx, "failed to create session", slog.Any("error", err))
		h.sendError(w, api.MessageInternalError, http.StatusInternalServerError)
		return
	}
	// пользователь мог исчезнуть между проверкой и созданием сессии
	if sessionID == "" {
		h.events.AuthEvent("login", resultFailure)
		h.sendServiceError(w, auth.ErrInvalidCredentials)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.events.AuthEvent("login", resultSuccess)

	h.sendJSON(w, api.UserResponse{Email: email, Message: api.MessageLoggedIn}, http.StatusOK)
}

// Logout обрабатывает DELETE /sessions
// Требует сессию (middleware.RequireSession), после выхода редиректит на /
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		h.sendServiceError(w, auth.ErrInvalidSession)
		return
	}

	if err := h.auth.DestroySession(ctx, user.ID); err != nil {
		h.events.AuthEvent("logout", resultError)
		h.logger.ErrorContext(ctx, "failed to destroy session", slog.Any("error", err))
		h.sendError(w, api.MessageInternalError, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.events.AuthEvent("logout", resultSuccess)

	http.Redirect(w, r, "/", http.StatusFound)
}

// Profile обрабатывает GET /profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.sendServiceError(w, auth.ErrInvalidSession)
		return
	}

	h.sendJSON(w, api.ProfileResponse{Email: user.Email}, http.StatusOK)
}

// GetResetPasswordToken обрабатывает POST /reset_password
// Форма: email
func (h *AuthHandler) GetResetPasswordToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.PostFormValue(api.FieldEmail)

	token, err := h.auth.GetResetPasswordToken(ctx, email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			h.events.AuthEvent("reset_token", resultFailure)
			h.logger.WarnContext(ctx, "reset requested for unknown email", slog.String("email", email))
			h.sendError(w, api.MessageUnknownEmail, http.StatusForbidden)
			return
		}
		h.events.AuthEvent("reset_token", resultError)
		h.logger.ErrorContext(ctx, "failed to issue reset token", slog.Any("error", err))
		h.sendError(w, api.MessageInternalError, http.StatusInternalServerError)
		return
	}

	h.events.AuthEvent("reset_token", resultSuccess)

	h.sendJSON(w, api.ResetTokenResponse{Email: email, ResetToken: token}, http.StatusOK)
}

// UpdatePassword обрабатывает PUT /reset_password
// Форма: email, reset_token, new_password
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.PostFormValue(api.FieldEmail)
	resetToken := r.PostFormValue(api.FieldResetToken)
	newPassword := r.PostFormValue(api.FieldNewPassword)

	if err := h.auth.UpdatePassword(ctx, resetToken, newPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			h.events.AuthEvent("update_password", resultFailure)
			h.logger.WarnContext(ctx, "invalid reset token")
			h.sendError(w, api.MessageInvalidResetToken, http.StatusForbidden)
		case errors.Is(err, auth.ErrInvalidInput):
			h.events.AuthEvent("update_password", resultFailure)
			h.sendServiceError(w, err)
		default:
			h.events.AuthEvent("update_password", resultError)
			h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
			h.sendServiceError(w, err)
		}
		return
	}

	h.events.AuthEvent("update_password", resultSuccess)

	h.sendJSON(w, api.UserResponse{Email: email, Message: api.MessagePasswordUpdated}, http.StatusOK)
}

// sendJSON отправляет JSON ответ
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	writeJSON(h.logger, w, data, statusCode)
}

// sendError отправляет JSON ответ с ошибкой
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}

// sendServiceError отправляет ответ для ошибки сервиса авторизации
func (h *AuthHandler) sendServiceError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	h.sendError(w, message, status)
}

// errorStatus сопоставляет ошибку сервиса авторизации HTTP статусу и сообщению
// ErrNotFound зависит от маршрута и обрабатывается в handler
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrUserAlreadyExists):
		return http.StatusBadRequest, api.MessageEmailRegistered
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, api.MessageInvalidCredentials
	case errors.Is(err, auth.ErrInvalidSession):
		return http.StatusForbidden, api.MessageInvalidSession
	default:
		return http.StatusInternalServerError, api.MessageInternalError
	}
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}
