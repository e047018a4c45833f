package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		errMsg  string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "bob@dylan.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "bob+test@dylan.com",
			wantErr: false,
		},
		{
			name:    "empty email",
			email:   "",
			wantErr: true,
			errMsg:  "email cannot be empty",
		},
		{
			name:    "missing at sign",
			email:   "bobdylan.com",
			wantErr: true,
			errMsg:  "valid address",
		},
		{
			name:    "display name is not accepted",
			email:   "Bob <bob@dylan.com>",
			wantErr: true,
			errMsg:  "valid address",
		},
		{
			name:    "surrounding whitespace",
			email:   " bob@dylan.com",
			wantErr: true,
			errMsg:  "valid address",
		},
		{
			name:    "too long",
			email:   strings.Repeat("a", MaxEmailLen) + "@x.com",
			wantErr: true,
			errMsg:  "must not exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errMsg   string
		wantErr  bool
	}{
		{name: "valid password", password: "pw1", wantErr: false},
		{name: "exactly 72 bytes", password: strings.Repeat("x", MaxPasswordLen), wantErr: false},
		{name: "empty password", password: "", wantErr: true, errMsg: "password cannot be empty"},
		{name: "too long", password: strings.Repeat("x", MaxPasswordLen+1), wantErr: true, errMsg: "must not exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
