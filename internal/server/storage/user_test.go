package storage

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Column(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		want    string
		wantErr bool
	}{
		{name: "id", field: FieldID, want: "id"},
		{name: "email", field: FieldEmail, want: "email"},
		{name: "session id", field: FieldSessionID, want: "session_id"},
		{name: "reset token", field: FieldResetToken, want: "reset_token"},
		{name: "password column is not a lookup key", field: Field("hashed_password"), wantErr: true},
		{name: "empty", field: Field(""), wantErr: true},
		{name: "injection", field: Field("email OR 1=1"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Column()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidField)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserUpdate_Assignments(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	question := func(int) string { return "?" }
	dollar := func(n int) string { return "$" + strconv.Itoa(n) }

	tests := []struct {
		placeholder func(int) string
		name        string
		wantSet     string
		update      UserUpdate
		wantArgs    []any
	}{
		{
			name:        "only updated_at",
			update:      UserUpdate{},
			placeholder: question,
			wantSet:     "updated_at = ?",
			wantArgs:    []any{now},
		},
		{
			name:        "set session",
			update:      UserUpdate{SessionID: SetString("s1")},
			placeholder: dollar,
			wantSet:     "session_id = $1, updated_at = $2",
			wantArgs:    []any{"s1", now},
		},
		{
			name:        "clear session",
			update:      UserUpdate{SessionID: Clear()},
			placeholder: dollar,
			wantSet:     "session_id = $1, updated_at = $2",
			wantArgs:    []any{nil, now},
		},
		{
			name:        "password and reset token",
			update:      UserUpdate{HashedPassword: []byte("h"), ResetToken: Clear()},
			placeholder: dollar,
			wantSet:     "hashed_password = $1, reset_token = $2, updated_at = $3",
			wantArgs:    []any{[]byte("h"), nil, now},
		},
		{
			name: "all fields",
			update: UserUpdate{
				HashedPassword: []byte("h"),
				SessionID:      SetString("s"),
				ResetToken:     SetString("r"),
			},
			placeholder: question,
			wantSet:     "hashed_password = ?, session_id = ?, reset_token = ?, updated_at = ?",
			wantArgs:    []any{[]byte("h"), "s", "r", now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, args := tt.update.Assignments(now, tt.placeholder)
			assert.Equal(t, tt.wantSet, set)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestUserUpdate_Where(t *testing.T) {
	dollar := func(n int) string { return "$" + strconv.Itoa(n) }

	tests := []struct {
		name      string
		update    UserUpdate
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "by id",
			update:    UserUpdate{SessionID: Clear()},
			wantWhere: "id = $3",
			wantArgs:  []any{"u-1"},
		},
		{
			name:      "by id and reset token",
			update:    UserUpdate{ResetToken: Clear(), ExpectResetToken: "tok-1"},
			wantWhere: "id = $3 AND reset_token = $4",
			wantArgs:  []any{"u-1", "tok-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.update.Where("u-1", 2, dollar)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
