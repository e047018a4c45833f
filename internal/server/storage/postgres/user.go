package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iudanet/userauth/internal/models"
	"github.com/iudanet/userauth/internal/server/storage"
)

// SQLSTATE codes mapped to storage errors.
const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

const selectUserColumns = `id, email, hashed_password, session_id, reset_token, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, hashed_password, session_id, reset_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
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
		if pgCode(err) == uniqueViolation {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// FindUserBy retrieves user by a single unique attribute
func (s *Storage) FindUserBy(ctx context.Context, field storage.Field, value string) (*models.User, error) {
	column, err := field.Column()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + selectUserColumns + ` FROM users WHERE ` + column + ` = $1`

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
		// malformed UUID in an id lookup cannot match any row
		if pgCode(err) == invalidTextRepresentation {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
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
	placeholder := func(n int) string { return "$" + strconv.Itoa(n) }
	set, args := update.Assignments(time.Now().UTC(), placeholder)
	where, whereArgs := update.Where(userID, len(args), placeholder)
	query := `UPDATE users SET ` + set + ` WHERE ` + where
	args = append(args, whereArgs...)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pgCode(err) == invalidTextRepresentation {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
