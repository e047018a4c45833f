package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/userauth/internal/validation"
)

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	c.io.Println("=== Registration ===")

	email, err := c.readEmail(args)
	if err != nil {
		return err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	password, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	// При вводе с клавиатуры просим подтверждение
	if c.passwords.FromFile == "" && c.passwords.FromArgs == "" && !passwordFromEnv() {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if confirm != password {
			return fmt.Errorf("passwords do not match")
		}
	}

	resp, err := c.apiClient.Register(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Printf("✓ %s: %s\n", resp.Message, resp.Email)
	c.io.Println("Now you can login with: userauth login", resp.Email)

	return nil
}
