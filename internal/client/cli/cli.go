package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iudanet/userauth/internal/client/iocli"
	"github.com/iudanet/userauth/internal/client/storage"
	"github.com/iudanet/userauth/pkg/api"
)

// EnvPassword - переменная окружения с паролем
const EnvPassword = "USERAUTH_PASSWORD"

// ErrUnknownCommand возвращается для неизвестной команды
var ErrUnknownCommand = errors.New("unknown command")

// ErrNotLoggedIn возвращается, если локальной сессии нет
var ErrNotLoggedIn = errors.New("not logged in. Please run 'userauth login' first")

// APIClient - операции сервера, нужные командам
type APIClient interface {
	BaseURL() string
	Register(ctx context.Context, email, password string) (*api.UserResponse, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, sessionID string) (*api.ProfileResponse, error)
	ResetPasswordToken(ctx context.Context, email string) (string, error)
	UpdatePassword(ctx context.Context, email, resetToken, newPassword string) error
}

// Passwords - источники пароля, заданные флагами
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io        iocli.IO
	apiClient APIClient
	store     storage.SessionStorage
	passwords Passwords
}

func New(out iocli.IO, apiClient APIClient, store storage.SessionStorage, passwords Passwords) *Cli {
	return &Cli{
		io:        out,
		apiClient: apiClient,
		store:     store,
		passwords: passwords,
	}
}

// Run выполняет команду с аргументами
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx, args)
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "profile":
		return c.runProfile(ctx)
	case "reset-password":
		return c.runResetPassword(ctx, args)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// readEmail берет email из первого аргумента или спрашивает его
func (c *Cli) readEmail(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return strings.TrimSpace(args[0]), nil
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return "", fmt.Errorf("failed to read email: %w", err)
	}
	return email, nil
}

// getPassword retrieves password from various sources with priority:
// 1. Environment variable USERAUTH_PASSWORD
// 2. File specified in Passwords.FromFile
// 3. Command-line parameter Passwords.FromArgs
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(prompt string) (string, error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv(EnvPassword); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: CLI parameter
	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, nil
	}

	// Priority 4: Interactive prompt (fallback)
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

func passwordFromEnv() bool {
	return os.Getenv(EnvPassword) != ""
}

// currentSession возвращает сохраненную сессию или ErrNotLoggedIn
func (c *Cli) currentSession(ctx context.Context) (*storage.SessionData, error) {
	session, err := c.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "userauth client")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  userauth [OPTIONS] COMMAND [EMAIL]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version              Show version information")
	fmt.Fprintln(w, "  --server URL           Server URL (default: http://localhost:5000)")
	fmt.Fprintln(w, "  --db PATH              Path to local database (default: userauth-client.db)")
	fmt.Fprintln(w, "  --password PASSWORD    Password (not recommended, use env var or file)")
	fmt.Fprintln(w, "  --password-file PATH   Path to file containing password")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Password Priority (highest to lowest):")
	fmt.Fprintln(w, "  1. USERAUTH_PASSWORD environment variable")
	fmt.Fprintln(w, "  2. --password-file (file path)")
	fmt.Fprintln(w, "  3. --password (command line)")
	fmt.Fprintln(w, "  4. Interactive prompt (fallback)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  register [EMAIL]        Register new user")
	fmt.Fprintln(w, "  login [EMAIL]           Login and store session locally")
	fmt.Fprintln(w, "  logout                  Logout and forget local session")
	fmt.Fprintln(w, "  profile                 Show the logged in user")
	fmt.Fprintln(w, "  reset-password [EMAIL]  Request reset token and set a new password")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  userauth register alice@example.com")
	fmt.Fprintln(w, "  USERAUTH_PASSWORD='secret' userauth login alice@example.com")
	fmt.Fprintln(w, "  userauth --server https://example.com profile")
}
