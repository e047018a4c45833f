package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/userauth/pkg/api"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:5000/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:5000", client.BaseURL())
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_Register проверяет успешную регистрацию
func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		assert.Equal(t, "a@x.com", r.PostFormValue(api.FieldEmail))
		assert.Equal(t, "pw1", r.PostFormValue(api.FieldPassword))

		writeJSON(t, w, http.StatusOK, api.UserResponse{Email: "a@x.com", Message: api.MessageUserCreated})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Register(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resp.Email)
	assert.Equal(t, api.MessageUserCreated, resp.Message)
}

// TestClient_Register_Error проверяет обработку ошибок при регистрации
func TestClient_Register_Error(t *testing.T) {
	tests := []struct {
		responseBody   interface{}
		name           string
		wantMessage    string
		responseStatus int
	}{
		{
			name:           "email already registered",
			responseStatus: http.StatusBadRequest,
			responseBody:   api.MessageResponse{Message: api.MessageEmailRegistered},
			wantMessage:    api.MessageEmailRegistered,
		},
		{
			name:           "internal error",
			responseStatus: http.StatusInternalServerError,
			responseBody:   api.ErrorResponse{Error: "Internal Server Error", Message: api.MessageInternalError},
			wantMessage:    api.MessageInternalError,
		},
		{
			name:           "error without message",
			responseStatus: http.StatusBadRequest,
			responseBody:   api.ErrorResponse{Error: "Bad Request"},
			wantMessage:    "Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.responseStatus, tt.responseBody)
			}))
			defer server.Close()

			client := NewClient(server.URL)

			resp, err := client.Register(context.Background(), "a@x.com", "pw1")
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, IsStatus(err, tt.responseStatus))

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.wantMessage, statusErr.Message)
		})
	}
}

func TestClient_Register_PlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Register(context.Background(), "a@x.com", "pw1")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusMethodNotAllowed, statusErr.StatusCode)
	assert.Equal(t, "Method Not Allowed", statusErr.Message)
	assert.Contains(t, err.Error(), "server error (405)")
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name      string
		cookie    *http.Cookie
		status    int
		wantID    string
		wantErr   error
		wantCode  int
		checkCode bool
	}{
		{
			name:   "success",
			cookie: &http.Cookie{Name: api.SessionCookieName, Value: "sid-1", Path: "/"},
			status: http.StatusOK,
			wantID: "sid-1",
		},
		{
			name:    "no cookie",
			status:  http.StatusOK,
			wantErr: ErrNoSessionCookie,
		},
		{
			name:      "invalid credentials",
			status:    http.StatusUnauthorized,
			wantCode:  http.StatusUnauthorized,
			checkCode: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/sessions", r.URL.Path)
				assert.Equal(t, "a@x.com", r.PostFormValue(api.FieldEmail))

				if tt.cookie != nil {
					http.SetCookie(w, tt.cookie)
				}
				if tt.status != http.StatusOK {
					writeJSON(t, w, tt.status, api.ErrorResponse{Error: http.StatusText(tt.status), Message: api.MessageInvalidCredentials})
					return
				}
				writeJSON(t, w, tt.status, api.UserResponse{Email: "a@x.com", Message: api.MessageLoggedIn})
			}))
			defer server.Close()

			sessionID, err := NewClient(server.URL).Login(context.Background(), "a@x.com", "pw1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.checkCode:
				assert.True(t, IsStatus(err, tt.wantCode))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, sessionID)
			}
		})
	}
}

func TestClient_Logout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/sessions", r.URL.Path)

		cookie, err := r.Cookie(api.SessionCookieName)
		if err != nil || cookie.Value != "sid-1" {
			writeJSON(t, w, http.StatusForbidden, api.ErrorResponse{Error: "Forbidden", Message: api.MessageInvalidSession})
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	assert.NoError(t, client.Logout(context.Background(), "sid-1"))

	err := client.Logout(context.Background(), "stale")
	assert.True(t, IsStatus(err, http.StatusForbidden))
}

func TestClient_Profile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/profile", r.URL.Path)

		cookie, err := r.Cookie(api.SessionCookieName)
		require.NoError(t, err)
		assert.Equal(t, "sid-1", cookie.Value)

		writeJSON(t, w, http.StatusOK, api.ProfileResponse{Email: "a@x.com"})
	}))
	defer server.Close()

	profile, err := NewClient(server.URL).Profile(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", profile.Email)
}

func TestClient_ResetPasswordFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reset_password", r.URL.Path)

		switch r.Method {
		case http.MethodPost:
			if r.PostFormValue(api.FieldEmail) != "a@x.com" {
				writeJSON(t, w, http.StatusForbidden, api.ErrorResponse{Error: "Forbidden", Message: api.MessageUnknownEmail})
				return
			}
			writeJSON(t, w, http.StatusOK, api.ResetTokenResponse{Email: "a@x.com", ResetToken: "tok-1"})
		case http.MethodPut:
			assert.Equal(t, "a@x.com", r.PostFormValue(api.FieldEmail))
			assert.Equal(t, "pw2", r.PostFormValue(api.FieldNewPassword))
			if r.PostFormValue(api.FieldResetToken) != "tok-1" {
				writeJSON(t, w, http.StatusForbidden, api.ErrorResponse{Error: "Forbidden", Message: api.MessageInvalidResetToken})
				return
			}
			writeJSON(t, w, http.StatusOK, api.UserResponse{Email: "a@x.com", Message: api.MessagePasswordUpdated})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL)

	token, err := client.ResetPasswordToken(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = client.ResetPasswordToken(ctx, "nobody@x.com")
	assert.True(t, IsStatus(err, http.StatusForbidden))

	assert.NoError(t, client.UpdatePassword(ctx, "a@x.com", token, "pw2"))

	err = client.UpdatePassword(ctx, "a@x.com", "bad", "pw2")
	assert.True(t, IsStatus(err, http.StatusForbidden))
	assert.Contains(t, err.Error(), api.MessageInvalidResetToken)
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).Profile(ctx, "sid-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
