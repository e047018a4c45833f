package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/userauth/internal/client/storage"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")

	email, err := c.readEmail(args)
	if err != nil {
		return err
	}

	password, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	sessionID, err := c.apiClient.Login(ctx, email, password)
	if err != nil {
		return err
	}

	// Предыдущая локальная сессия перезаписывается
	session := &storage.SessionData{
		Email:     email,
		SessionID: sessionID,
		ServerURL: c.apiClient.BaseURL(),
		CreatedAt: time.Now().UTC(),
	}
	if err := c.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Printf("✓ Logged in as %s\n", email)

	return nil
}
