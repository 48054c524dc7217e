package google

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestCredentialsDir_EnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "creds")
	t.Setenv(CredentialsDirEnvVar, dir)

	resolved, err := CredentialsDir()
	require.NoError(t, err)
	assert.Equal(t, dir, resolved)

	// The directory must be created on resolution
	info, err := os.Stat(resolved)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCredentialsDir_HomeFallback(t *testing.T) {
	t.Setenv(CredentialsDirEnvVar, "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	resolved, err := CredentialsDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".workspace-mcp", "credentials"), resolved)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv(CredentialsDirEnvVar, t.TempDir())

	assert.False(t, HasTokenForAccount("work"))

	token := &oauth2.Token{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		TokenType:    "Bearer",
	}
	require.NoError(t, StoreTokenForAccount("work", token))

	assert.True(t, HasTokenForAccount("work"))
	assert.False(t, HasTokenForAccount("default"))

	loaded, err := GetTokenForAccount("work")
	require.NoError(t, err)
	assert.Equal(t, "access-123", loaded.AccessToken)
	assert.Equal(t, "refresh-456", loaded.RefreshToken)
}

func TestGetAuthURL_CarriesState(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-123")

	url := GetAuthURL("http://localhost:8765/oauth2callback", "state-abc")
	assert.Contains(t, url, "state=state-abc")
	assert.Contains(t, url, "client-123")
	assert.Contains(t, url, "access_type=offline")
}
