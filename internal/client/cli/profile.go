package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/userauth/internal/client/api"
)

func (c *Cli) runProfile(ctx context.Context) error {
	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	profile, err := c.apiClient.Profile(ctx, session.SessionID)
	if err != nil {
		if api.IsStatus(err, http.StatusForbidden) {
			// Сессия устарела (повторный вход или logout с другого клиента)
			if err := c.store.DeleteSession(ctx); err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
			return fmt.Errorf("session expired: %w", ErrNotLoggedIn)
		}
		return err
	}

	c.io.Printf("Email:     %s\n", profile.Email)
	c.io.Printf("Server:    %s\n", session.ServerURL)
	c.io.Printf("Logged in: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))

	return nil
}
