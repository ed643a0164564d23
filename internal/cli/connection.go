package cli

import (
	"fmt"

	"github.com/hsnsag/pillbox/internal/keyring"
	"github.com/hsnsag/pillbox/internal/storage/postgres"
)

type ConnectionSetCmd struct {
	ConnString string `arg:"" help:"PostgreSQL connection string (no embedded password; use the keyring-native auth of your server or a password-less method)."`
}

func (c *ConnectionSetCmd) Run(ctx *Context) error {
	if _, err := postgres.ValidateConnString(c.ConnString); err != nil {
		return err
	}
	if !keyring.IsAvailable() {
		return fmt.Errorf("system keyring is not available; cannot store the connection string securely")
	}
	if err := keyring.SetConnectionString(c.ConnString); err != nil {
		return err
	}
	fmt.Println("Connection string stored in the system keyring.")
	fmt.Println("Run 'pillbox --config postgres init' to initialize the database.")
	return nil
}

type ConnectionGetCmd struct{}

func (c *ConnectionGetCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		return err
	}
	fmt.Println(connStr)
	return nil
}

type ConnectionDeleteCmd struct{}

func (c *ConnectionDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		return err
	}
	fmt.Println("Connection string removed from the system keyring.")
	return nil
}
