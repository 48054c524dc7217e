package drive

import (
	"context"
	"fmt"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/workspace-mcp/internal/google"
)

// permissionFields are the Drive fields needed for a sharing report.
const permissionFields = "id, name, mimeType, size, modifiedTime, owners, permissions, " +
	"webViewLink, webContentLink, shared, sharingUser"

// Client wraps the Google Drive API service.
type Client struct {
	service *drive.Service
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account.
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccount creates a new Google Drive client with OAuth2
// authentication for a specific account. Returns an error if no valid
// token exists - use HasTokenForAccount() to check first.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: driveService,
		account: account,
	}, nil
}

// NewClient creates a new Google Drive client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// GetFilePermissions retrieves a file's metadata including the full
// permission list, searching shared drives as well.
func (c *Client) GetFilePermissions(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	file, err := c.service.Files.Get(fileID).
		Fields(permissionFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file permissions for %s: %w", fileID, err)
	}

	return convertToFileInfo(file), nil
}

// FindByName searches for files matching a name exactly, across shared
// drives too.
func (c *Client) FindByName(ctx context.Context, name string, pageSize int64) ([]*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	escaped := strings.ReplaceAll(name, "'", `\'`)
	resp, err := c.service.Files.List().
		Q(fmt.Sprintf("name = '%s'", escaped)).
		PageSize(pageSize).
		Fields("files(" + permissionFields + ")").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search for file %q: %w", name, err)
	}

	files := make([]*FileInfo, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, convertToFileInfo(f))
	}
	return files, nil
}

// convertToFileInfo maps an API file to the local representation.
func convertToFileInfo(file *drive.File) *FileInfo {
	info := &FileInfo{
		ID:             file.Id,
		Name:           file.Name,
		MimeType:       file.MimeType,
		Size:           file.Size,
		ModifiedTime:   file.ModifiedTime,
		WebViewLink:    file.WebViewLink,
		WebContentLink: file.WebContentLink,
		Shared:         file.Shared,
	}

	for _, owner := range file.Owners {
		info.Owners = append(info.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}

	if file.SharingUser != nil {
		info.SharingUser = &User{
			DisplayName:  file.SharingUser.DisplayName,
			EmailAddress: file.SharingUser.EmailAddress,
		}
	}

	for _, perm := range file.Permissions {
		info.Permissions = append(info.Permissions, Permission{
			ID:           perm.Id,
			Type:         perm.Type,
			Role:         perm.Role,
			EmailAddress: perm.EmailAddress,
			Domain:       perm.Domain,
		})
	}

	return info
}
