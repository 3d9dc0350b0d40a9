package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"ritual/internal/cli"
	"ritual/internal/keyring"
	"ritual/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Show keyring availability."`
}

type KeyringSetCmd struct {
	ConnString string `arg:"" help:"PostgreSQL connection string (postgres:// URL or DSN)."`
}

func (c *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !strings.HasPrefix(c.ConnString, "postgres://") &&
		!strings.HasPrefix(c.ConnString, "postgresql://") &&
		!strings.Contains(c.ConnString, "=") {
		return fmt.Errorf("expected a postgres:// URL or key=value DSN")
	}

	if _, err := postgres.ValidateConnString(c.ConnString); err != nil {
		// Embedded credentials are fine here; the keyring is where they belong.
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return err
		}
	}

	if err := keyring.SetConnectionString(c.ConnString); err != nil {
		return fmt.Errorf("failed to store connection string: %w", err)
	}

	fmt.Println("Connection string stored in the OS keyring.")
	fmt.Println("You can now use ritual without the --config flag.")
	return nil
}

type KeyringGetCmd struct{}

func (c *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("No connection string stored in the keyring.")
			return nil
		}
		return err
	}

	fmt.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("No connection string stored in the keyring.")
			return nil
		}
		return fmt.Errorf("failed to delete connection string: %w", err)
	}

	fmt.Println("Connection string removed from the OS keyring.")
	return nil
}

type KeyringStatusCmd struct{}

func (c *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("OS keyring: unavailable")
		return nil
	}
	fmt.Println("OS keyring: available")

	if _, err := keyring.GetConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("Stored connection string: none")
			return nil
		}
		return err
	}
	fmt.Println("Stored connection string: present")
	return nil
}

// maskPassword hides the password in a connection string for display. Both
// the URL form and the key=value DSN form are handled.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		if _, isSet := u.User.Password(); isSet {
			u.User = url.UserPassword(u.User.Username(), "****")
		}
		return u.String()
	}

	fields := strings.Fields(connStr)
	for i, field := range fields {
		if strings.HasPrefix(strings.ToLower(field), "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
