package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/userauth/internal/client/api"
)

func (c *Cli) runLogout(ctx context.Context) error {
	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	// 403 значит, что сервер уже не знает эту сессию; локальную все равно удаляем
	if err := c.apiClient.Logout(ctx, session.SessionID); err != nil && !api.IsStatus(err, http.StatusForbidden) {
		return err
	}

	if err := c.store.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.io.Printf("✓ Logged out %s\n", session.Email)

	return nil
}
