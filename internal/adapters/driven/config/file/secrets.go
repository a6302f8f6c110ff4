package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/term"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// SecretsFileName is the secrets file inside the config directory.
const SecretsFileName = "secrets.toml"

// secretsFile mirrors the layout of secrets.toml:
//
//	[connections.snowflake]
//	account = "xy12345"
//	user = "chef"
//	...
type secretsFile struct {
	Connections struct {
		Snowflake connection `toml:"snowflake"`
	} `toml:"connections"`
}

type connection struct {
	Account   string `toml:"account"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	Warehouse string `toml:"warehouse"`
	Database  string `toml:"database"`
	Schema    string `toml:"schema"`
	Role      string `toml:"role"`
}

// secretEnv maps environment variables that override file values.
var secretEnv = map[string]func(*connection) *string{
	"SNOWFLAKE_ACCOUNT":   func(c *connection) *string { return &c.Account },
	"SNOWFLAKE_USER":      func(c *connection) *string { return &c.User },
	"SNOWFLAKE_PASSWORD":  func(c *connection) *string { return &c.Password },
	"SNOWFLAKE_WAREHOUSE": func(c *connection) *string { return &c.Warehouse },
	"SNOWFLAKE_DATABASE":  func(c *connection) *string { return &c.Database },
	"SNOWFLAKE_SCHEMA":    func(c *connection) *string { return &c.Schema },
	"SNOWFLAKE_ROLE":      func(c *connection) *string { return &c.Role },
}

// Secrets loads warehouse credentials.
type Secrets struct {
	path   string
	getenv func(string) string
}

// NewSecrets creates a secrets loader. An empty path means
// ~/.cortex-chef/secrets.toml.
func NewSecrets(path string) (*Secrets, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, SecretsFileName)
	}
	return &Secrets{path: path, getenv: os.Getenv}, nil
}

// Path returns the secrets file path.
func (s *Secrets) Path() string {
	return s.path
}

// Load reads the [connections.snowflake] table and applies SNOWFLAKE_*
// environment overrides. A missing file is not an error; the result may
// still fail Validate.
func (s *Secrets) Load() (domain.WarehouseCredentials, error) {
	var f secretsFile

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &f); err != nil {
			return domain.WarehouseCredentials{}, fmt.Errorf("parse %s: %w", s.path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return domain.WarehouseCredentials{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	conn := f.Connections.Snowflake
	for env, field := range secretEnv {
		if v := s.getenv(env); v != "" {
			*field(&conn) = v
		}
	}

	return domain.WarehouseCredentials{
		Account:   strings.TrimSpace(conn.Account),
		User:      strings.TrimSpace(conn.User),
		Password:  conn.Password,
		Warehouse: strings.TrimSpace(conn.Warehouse),
		Database:  strings.TrimSpace(conn.Database),
		Schema:    strings.TrimSpace(conn.Schema),
		Role:      strings.TrimSpace(conn.Role),
	}, nil
}

// PromptPassword asks for the password on a terminal without echo.
// It returns domain.ErrMissingCredentials when in is not a terminal.
func PromptPassword(in *os.File, out io.Writer, user string) (string, error) {
	fd := int(in.Fd()) //nolint:gosec // G115: file descriptors fit in int.
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%w: password (no terminal to prompt on)", domain.ErrMissingCredentials)
	}
	fmt.Fprintf(out, "Password for %s: ", user)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
