package crypto

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost - cost factor для bcrypt
// В тестах можно понизить до bcrypt.MinCost
var BcryptCost = bcrypt.DefaultCost

// HashPassword хеширует пароль с помощью bcrypt (соль генерируется внутри)
// Результат пригоден для хранения в БД, сам пароль нигде не сохраняется
func HashPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return hash, nil
}

// CheckPassword сравнивает пароль с сохраненным bcrypt хешем
// Возвращает false при несовпадении или поврежденном хеше
func CheckPassword(password string, hashedPassword []byte) bool {
	if len(hashedPassword) == 0 {
		return false
	}

	// поврежденный хеш тоже считаем несовпадением
	return bcrypt.CompareHashAndPassword(hashedPassword, []byte(password)) == nil
}

// GenerateUUID генерирует случайный UUID (v4) в строковом виде
// Используется для session id и reset token
func GenerateUUID() string {
	return uuid.NewString()
}
