package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/userauth/internal/validation"
)

// runResetPassword запрашивает токен сброса и сразу меняет пароль
func (c *Cli) runResetPassword(ctx context.Context, args []string) error {
	c.io.Println("=== Reset password ===")

	email, err := c.readEmail(args)
	if err != nil {
		return err
	}

	token, err := c.apiClient.ResetPasswordToken(ctx, email)
	if err != nil {
		return err
	}

	password, err := c.getPassword("New password: ")
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	if err := c.apiClient.UpdatePassword(ctx, email, token, password); err != nil {
		return err
	}

	c.io.Printf("✓ Password updated for %s\n", email)

	return nil
}
