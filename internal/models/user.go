package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt      time.Time `json:"created_at"` // время создания
	UpdatedAt      time.Time `json:"updated_at"` // время последнего обновления
	SessionID      *string   `json:"-"`          // текущая сессия, nil если не залогинен
	ResetToken     *string   `json:"-"`          // одноразовый токен сброса пароля
	ID             string    `json:"id"`         // UUID пользователя
	Email          string    `json:"email"`      // уникальный email
	HashedPassword []byte    `json:"-"`          // bcrypt хеш пароля
}
