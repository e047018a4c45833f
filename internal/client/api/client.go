package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/userauth/pkg/api"
)

// ErrNoSessionCookie возвращается, если сервер не выставил cookie сессии
var ErrNoSessionCookie = errors.New("server did not set session cookie")

// StatusError описывает ответ сервера с кодом вне 2xx
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus проверяет, что err - StatusError с данным кодом
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Редирект после выхода не отслеживаем, нужен сам ответ
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// BaseURL возвращает адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, email, password string) (*api.UserResponse, error) {
	form := url.Values{}
	form.Set(api.FieldEmail, email)
	form.Set(api.FieldPassword, password)

	var resp api.UserResponse
	if _, err := c.doRequest(ctx, http.MethodPost, "/users", form, "", &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет вход и возвращает id сессии из cookie
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set(api.FieldEmail, email)
	form.Set(api.FieldPassword, password)

	httpResp, err := c.doRequest(ctx, http.MethodPost, "/sessions", form, "", nil)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}

	for _, cookie := range httpResp.Cookies() {
		if cookie.Name == api.SessionCookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	return "", ErrNoSessionCookie
}

// Logout завершает сессию на сервере
func (c *Client) Logout(ctx context.Context, sessionID string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/sessions", nil, sessionID, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Profile возвращает профиль владельца сессии
func (c *Client) Profile(ctx context.Context, sessionID string) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/profile", nil, sessionID, &resp); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// ResetPasswordToken запрашивает токен сброса пароля
func (c *Client) ResetPasswordToken(ctx context.Context, email string) (string, error) {
	form := url.Values{}
	form.Set(api.FieldEmail, email)

	var resp api.ResetTokenResponse
	if _, err := c.doRequest(ctx, http.MethodPost, "/reset_password", form, "", &resp); err != nil {
		return "", fmt.Errorf("reset token request failed: %w", err)
	}
	return resp.ResetToken, nil
}

// UpdatePassword меняет пароль по токену сброса
func (c *Client) UpdatePassword(ctx context.Context, email, resetToken, newPassword string) error {
	form := url.Values{}
	form.Set(api.FieldEmail, email)
	form.Set(api.FieldResetToken, resetToken)
	form.Set(api.FieldNewPassword, newPassword)

	if _, err := c.doRequest(ctx, http.MethodPut, "/reset_password", form, "", nil); err != nil {
		return fmt.Errorf("update password request failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос с формой и, если задан sessionID, cookie сессии
// Успехом считаются 2xx и 302
func (c *Client) doRequest(ctx context.Context, method, path string, form url.Values, sessionID string, result interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if form != nil {
		bodyReader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: api.SessionCookieName, Value: sessionID})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if (resp.StatusCode < 200 || resp.StatusCode >= 300) && resp.StatusCode != http.StatusFound {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Message
			if statusErr.Message == "" {
				statusErr.Message = errResp.Error
			}
		} else {
			statusErr.Message = strings.TrimSpace(string(respBody))
		}
		return nil, statusErr
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp, nil
}
