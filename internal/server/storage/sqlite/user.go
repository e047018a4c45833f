package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/iudanet/userauth/internal/models"
	"github.com/iudanet/userauth/internal/server/storage"
)

const selectUserColumns = `id, email, hashed_password, session_id, reset_token, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, hashed_password, session_id, reset_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.HashedPassword,
		nullString(user.SessionID),
		nullString(user.ResetToken),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Проверяем на duplicate email
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// FindUserBy retrieves user by a single unique attribute
func (s *Storage) FindUserBy(ctx context.Context, field storage.Field, value string) (*models.User, error) {
	column, err := field.Column()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + selectUserColumns + ` FROM users WHERE ` + column + ` = ?`

	user := &models.User{}
	var sessionID, resetToken sql.NullString

	err = s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&sessionID,
		&resetToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if sessionID.Valid {
		user.SessionID = &sessionID.String
	}
	if resetToken.Valid {
		user.ResetToken = &resetToken.String
	}

	return user, nil
}

// UpdateUser applies the given changes to a user
func (s *Storage) UpdateUser(ctx context.Context, userID string, update storage.UserUpdate) error {
	placeholder := func(int) string { return "?" }
	set, args := update.Assignments(time.Now().UTC(), placeholder)
	where, whereArgs := update.Where(userID, len(args), placeholder)
	query := `UPDATE users SET ` + set + ` WHERE ` + where
	args = append(args, whereArgs...)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
