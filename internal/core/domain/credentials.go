package domain

import (
	"fmt"
	"strings"
)

// WarehouseCredentials holds the connection parameters for the managed warehouse.
// They are read from the local secrets file and never persisted elsewhere.
type WarehouseCredentials struct {
	// Account is the warehouse account identifier (e.g., "xy12345.eu-west-1").
	Account string

	// User is the login name.
	User string

	// Password is the login password.
	Password string

	// Warehouse is the compute warehouse used for queries.
	Warehouse string

	// Database is the database holding the chunk and category tables.
	Database string

	// Schema is the schema holding the chunk and category tables.
	Schema string

	// Role is the optional role to assume.
	Role string
}

// Validate returns ErrMissingCredentials naming every empty required field.
func (c WarehouseCredentials) Validate() error {
	var missing []string
	if c.Account == "" {
		missing = append(missing, "account")
	}
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.Warehouse == "" {
		missing = append(missing, "warehouse")
	}
	if c.Database == "" {
		missing = append(missing, "database")
	}
	if c.Schema == "" {
		missing = append(missing, "schema")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Redacted returns a copy safe for display, with the password masked.
func (c WarehouseCredentials) Redacted() WarehouseCredentials {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}
