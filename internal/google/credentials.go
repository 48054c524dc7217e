package google

import (
	"fmt"
	"os"
	"path/filepath"
)

// CredentialsDirEnvVar overrides the base directory used for stored tokens
// and the persisted OAuth state table.
const CredentialsDirEnvVar = "GOOGLE_MCP_CREDENTIALS_DIR"

// CredentialsDir resolves the directory holding OAuth tokens and state.
//
// Resolution order: the GOOGLE_MCP_CREDENTIALS_DIR environment variable,
// then ~/.workspace-mcp/credentials, then ./.credentials as a last resort
// when no home directory is available. The directory is created if absent.
func CredentialsDir() (string, error) {
	dir := os.Getenv(CredentialsDirEnvVar)
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			dir = filepath.Join(home, ".workspace-mcp", "credentials")
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("failed to resolve credentials directory: %w", err)
			}
			dir = filepath.Join(cwd, ".credentials")
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create credentials directory %s: %w", dir, err)
	}

	return dir, nil
}

// tokenFilePath returns the token file for an account inside the
// credentials directory.
func tokenFilePath(account string) (string, error) {
	dir, err := CredentialsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.token.json", account)), nil
}
