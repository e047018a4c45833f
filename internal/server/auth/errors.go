package auth

import "errors"

// Ошибки сервиса авторизации
var (
	// ErrUserAlreadyExists - email уже зарегистрирован
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrNotFound - пользователь или токен не найден
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials - неверный email или пароль
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSession - сессия отсутствует или недействительна
	ErrInvalidSession = errors.New("invalid session")

	// ErrInvalidInput - email или пароль не прошли валидацию
	ErrInvalidInput = errors.New("invalid input")
)
