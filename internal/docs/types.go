package docs

// DocumentMetadata holds Drive metadata for a document or file.
type DocumentMetadata struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	CreatedTime  string `json:"createdTime,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
	Owners       []User `json:"owners,omitempty"`
}

// User identifies a document owner.
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// SearchResult is one hit from a Docs search via the Drive API.
type SearchResult struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreatedTime  string `json:"createdTime,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}

// GoogleDocMimeType is the Drive MIME type of native Google Docs.
const GoogleDocMimeType = "application/vnd.google-apps.document"

// DocumentURL returns the edit link for a document ID.
func DocumentURL(documentID string) string {
	return "https://docs.google.com/document/d/" + documentID + "/edit"
}
