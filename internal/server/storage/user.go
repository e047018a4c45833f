package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/userauth/internal/models"
)

// Field names a user attribute usable as a unique lookup key
type Field string

// Lookup keys supported by FindUserBy
const (
	FieldID         Field = "id"
	FieldEmail      Field = "email"
	FieldSessionID  Field = "session_id"
	FieldResetToken Field = "reset_token"
)

// Column returns the column name for f, or ErrInvalidField.
// Backends must never interpolate an unchecked Field into SQL.
func (f Field) Column() (string, error) {
	switch f {
	case FieldID, FieldEmail, FieldSessionID, FieldResetToken:
		return string(f), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidField, string(f))
	}
}

// NullableString is an optional change to a nullable column.
// Set with Value == nil clears the column.
type NullableString struct {
	Value *string
	Set   bool
}

// arg returns the bind value: the string, or nil for NULL
func (n NullableString) arg() any {
	if n.Value == nil {
		return nil
	}
	return *n.Value
}

// SetString returns a change that stores v
func SetString(v string) NullableString {
	return NullableString{Value: &v, Set: true}
}

// Clear returns a change that stores NULL
func Clear() NullableString {
	return NullableString{Set: true}
}

// UserUpdate lists the attributes to change on a user record.
// Unset fields are left as they are.
// A non-empty ExpectResetToken makes the update conditional: it applies only
// while the stored reset token still equals it.
type UserUpdate struct {
	SessionID        NullableString
	ResetToken       NullableString
	ExpectResetToken string
	HashedPassword   []byte
}

// Assignments renders the SET clause for update plus its arguments.
// updated_at is always assigned. placeholder renders the n-th (1-based) bind parameter.
func (u UserUpdate) Assignments(updatedAt time.Time, placeholder func(n int) string) (string, []any) {
	var (
		sets []string
		args []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = "+placeholder(len(args)))
	}

	if u.HashedPassword != nil {
		add("hashed_password", u.HashedPassword)
	}
	if u.SessionID.Set {
		add("session_id", u.SessionID.arg())
	}
	if u.ResetToken.Set {
		add("reset_token", u.ResetToken.arg())
	}
	add("updated_at", updatedAt)

	return strings.Join(sets, ", "), args
}

// Where renders the WHERE clause selecting userID plus its arguments.
// Bind numbering continues after the n arguments already used by the SET clause.
func (u UserUpdate) Where(userID string, n int, placeholder func(n int) string) (string, []any) {
	where := "id = " + placeholder(n+1)
	args := []any{userID}
	if u.ExpectResetToken != "" {
		where += " AND reset_token = " + placeholder(n+2)
		args = append(args, u.ExpectResetToken)
	}
	return where, args
}

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email already exists
	CreateUser(ctx context.Context, user *models.User) error

	// FindUserBy retrieves the user whose field equals value
	// Returns ErrUserNotFound if no user matches, ErrInvalidField for unknown fields
	FindUserBy(ctx context.Context, field Field, value string) (*models.User, error)

	// UpdateUser applies update to the user with the given ID in a single statement
	// Returns ErrUserNotFound if user doesn't exist or ExpectResetToken no longer matches
	UpdateUser(ctx context.Context, userID string, update UserUpdate) error

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error

	// Close releases the database connection
	Close() error
}
