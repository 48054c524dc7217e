package drive

// FileInfo represents metadata about a file in Google Drive, including its
// sharing state.
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes (not populated for folders)
	Size int64 `json:"size,omitempty"`

	// ModifiedTime is when the file was last modified (RFC 3339)
	ModifiedTime string `json:"modifiedTime,omitempty"`

	// WebViewLink is a link for opening the file in a Google viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// WebContentLink is a direct download link (only for downloadable files)
	WebContentLink string `json:"webContentLink,omitempty"`

	// Owners are the owners of the file
	Owners []User `json:"owners,omitempty"`

	// Shared indicates whether the file is shared
	Shared bool `json:"shared"`

	// SharingUser is the user who shared the file, if any
	SharingUser *User `json:"sharingUser,omitempty"`

	// Permissions are the access permissions for the file
	Permissions []Permission `json:"permissions,omitempty"`
}

// User represents a Google Drive user (owner, permission holder, etc.)
type User struct {
	// DisplayName is the display name of the user
	DisplayName string `json:"displayName"`

	// EmailAddress is the email address of the user
	EmailAddress string `json:"emailAddress"`
}

// Permission represents access permissions for a file
type Permission struct {
	// ID is the unique identifier for the permission
	ID string `json:"id"`

	// Type is the type of grantee (user, group, domain, anyone)
	Type string `json:"type"`

	// Role is the role granted by this permission (owner, writer, commenter, reader, ...)
	Role string `json:"role"`

	// EmailAddress is the email address of the user or group (if type is user or group)
	EmailAddress string `json:"emailAddress,omitempty"`

	// Domain is the domain to which this permission refers (if type is domain)
	Domain string `json:"domain,omitempty"`
}
