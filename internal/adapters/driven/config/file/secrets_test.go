package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

func newTestSecrets(t *testing.T, content string, env map[string]string) *Secrets {
	t.Helper()
	path := filepath.Join(t.TempDir(), SecretsFileName)
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	s, err := NewSecrets(path)
	require.NoError(t, err)
	s.getenv = func(k string) string { return env[k] }
	return s
}

func TestSecrets_Load(t *testing.T) {
	s := newTestSecrets(t, `
[connections.snowflake]
account = "xy12345.eu-west-1"
user = "chef"
password = "s3cret"
warehouse = "COMPUTE_WH"
database = "CC_QUICKSTART_CORTEX_SEARCH_DOCS"
schema = "DATA"
`, nil)

	creds, err := s.Load()

	require.NoError(t, err)
	assert.Equal(t, "xy12345.eu-west-1", creds.Account)
	assert.Equal(t, "s3cret", creds.Password)
	assert.Equal(t, "DATA", creds.Schema)
	assert.Empty(t, creds.Role)
	assert.NoError(t, creds.Validate())
}

func TestSecrets_Load_EnvOverrides(t *testing.T) {
	s := newTestSecrets(t, `
[connections.snowflake]
account = "file-account"
user = "chef"
`, map[string]string{"SNOWFLAKE_ACCOUNT": "env-account", "SNOWFLAKE_ROLE": "SYSADMIN"})

	creds, err := s.Load()

	require.NoError(t, err)
	assert.Equal(t, "env-account", creds.Account)
	assert.Equal(t, "chef", creds.User)
	assert.Equal(t, "SYSADMIN", creds.Role)
}

func TestSecrets_Load_MissingFile(t *testing.T) {
	s := newTestSecrets(t, "", nil)

	creds, err := s.Load()

	require.NoError(t, err)
	assert.ErrorIs(t, creds.Validate(), domain.ErrMissingCredentials)
}

func TestSecrets_Load_InvalidTOML(t *testing.T) {
	s := newTestSecrets(t, "[connections.snowflake\naccount=", nil)

	_, err := s.Load()
	assert.Error(t, err)
}

func TestPromptPassword_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	_, err = PromptPassword(f, os.Stderr, "chef")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}
