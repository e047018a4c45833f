// Package auth реализует регистрацию, вход, сессии и сброс пароля
// поверх storage.UserStorage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/userauth/internal/crypto"
	"github.com/iudanet/userauth/internal/models"
	"github.com/iudanet/userauth/internal/server/storage"
	"github.com/iudanet/userauth/internal/validation"
)

// Service - фасад авторизации, один экземпляр на процесс
type Service struct {
	logger  *slog.Logger
	storage storage.UserStorage
	now     func() time.Time
}

// New создает сервис авторизации с заданным хранилищем
func New(userStorage storage.UserStorage, logger *slog.Logger) *Service {
	return &Service{
		logger:  logger,
		storage: userStorage,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Register регистрирует пользователя с email и паролем
// Возвращает ErrUserAlreadyExists, если email уже занят
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// Проверяем, что email свободен
	_, err := s.storage.FindUserBy(ctx, storage.FieldEmail, email)
	switch {
	case err == nil:
		return nil, ErrUserAlreadyExists
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:             crypto.GenerateUUID(),
		Email:          email,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// UNIQUE на email закрывает гонку между проверкой и вставкой
	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))

	return user, nil
}

// ValidLogin проверяет пару email/пароль
// Отсутствующий пользователь - не ошибка, а false
func (s *Service) ValidLogin(ctx context.Context, email, password string) bool {
	user, err := s.storage.FindUserBy(ctx, storage.FieldEmail, email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			s.logger.ErrorContext(ctx, "failed to look up user", slog.Any("error", err))
		}
		return false
	}

	return crypto.CheckPassword(password, user.HashedPassword)
}

// CreateSession выдает новый session id пользователю с данным email
// Для неизвестного email возвращает пустую строку без ошибки
func (s *Service) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := s.storage.FindUserBy(ctx, storage.FieldEmail, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	sessionID := crypto.GenerateUUID()
	// предыдущая сессия перезаписывается
	if err := s.storage.UpdateUser(ctx, user.ID, storage.UserUpdate{SessionID: storage.SetString(sessionID)}); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.InfoContext(ctx, "session created", slog.String("user_id", user.ID))

	return sessionID, nil
}

// GetUserFromSessionID возвращает владельца сессии
// Пустой или неизвестный session id дает nil, nil
func (s *Service) GetUserFromSessionID(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	user, err := s.storage.FindUserBy(ctx, storage.FieldSessionID, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	return user, nil
}

// DestroySession завершает сессию пользователя
// Отсутствующий пользователь - no-op
func (s *Service) DestroySession(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	err := s.storage.UpdateUser(ctx, userID, storage.UserUpdate{SessionID: storage.Clear()})
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	s.logger.InfoContext(ctx, "session destroyed", slog.String("user_id", userID))

	return nil
}

// GetResetPasswordToken выдает токен сброса пароля
// Возвращает ErrNotFound для неизвестного email
func (s *Service) GetResetPasswordToken(ctx context.Context, email string) (string, error) {
	user, err := s.storage.FindUserBy(ctx, storage.FieldEmail, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	token := crypto.GenerateUUID()
	if err := s.storage.UpdateUser(ctx, user.ID, storage.UserUpdate{ResetToken: storage.SetString(token)}); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	s.logger.InfoContext(ctx, "reset token issued", slog.String("user_id", user.ID))

	return token, nil
}

// UpdatePassword меняет пароль по токену сброса и гасит токен
// Возвращает ErrNotFound для неизвестного или уже использованного токена
func (s *Service) UpdatePassword(ctx context.Context, resetToken, password string) error {
	if resetToken == "" {
		return ErrNotFound
	}

	user, err := s.storage.FindUserBy(ctx, storage.FieldResetToken, resetToken)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	// новый хеш и сброс токена одним UPDATE, только пока токен не израсходован
	update := storage.UserUpdate{
		HashedPassword:   hashed,
		ResetToken:       storage.Clear(),
		ExpectResetToken: resetToken,
	}
	if err := s.storage.UpdateUser(ctx, user.ID, update); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password updated", slog.String("user_id", user.ID))

	return nil
}

// Ping проверяет доступность хранилища
func (s *Service) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}
