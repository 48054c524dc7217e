package docs

import (
	"context"
	"fmt"
	"io"
	"strings"

	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/workspace-mcp/internal/google"
)

// Client wraps the Google Docs and Drive API services.
type Client struct {
	docsService   *docs.Service
	driveService  *drive.Service
	account       string
	tokenProvider google.TokenProvider
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account.
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccountWithProvider creates a new Google Docs client with
// OAuth2 authentication for a specific account, using the given token
// provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth client for account %s: %w", account, err)
	}

	docsService, err := docs.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		docsService:   docsService,
		driveService:  driveService,
		account:       account,
		tokenProvider: provider,
	}, nil
}

// NewClientForAccount creates a new Google Docs client for a specific
// account using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Google Docs client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// GetDocument retrieves a Google Doc's content by document ID.
// includeTabsContent=true returns document.tabs populated for multi-tab
// docs, or document.body for legacy docs.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}

	doc, err := c.docsService.Documents.Get(documentID).
		IncludeTabsContent(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return doc, nil
}

// GetContent retrieves the text content of a Google Doc or a Drive file
// identified by fileID. Native Google Docs are fetched via the Docs API
// with tab support; plain-text Drive files are downloaded directly. For
// other binary formats only the metadata header is returned.
func (c *Client) GetContent(ctx context.Context, fileID string) (string, error) {
	meta, err := c.GetFileMetadata(ctx, fileID)
	if err != nil {
		return "", err
	}

	header := fmt.Sprintf("File: %q (ID: %s, Type: %s)\nLink: %s\n\n--- CONTENT ---\n",
		meta.Name, meta.ID, meta.MimeType, meta.WebViewLink)

	switch {
	case meta.MimeType == GoogleDocMimeType:
		doc, err := c.GetDocument(ctx, fileID)
		if err != nil {
			return "", err
		}
		return header + ExtractText(doc), nil

	case strings.HasPrefix(meta.MimeType, "text/"):
		resp, err := c.driveService.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("failed to download file %s: %w", fileID, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", fileID, err)
		}
		return header + string(body), nil

	default:
		return header + fmt.Sprintf("[binary or unsupported content type %q, no text extracted]", meta.MimeType), nil
	}
}

// CreateDocument creates a new Google Doc with the given title and returns
// its ID. When content is non-empty it is inserted as the initial body.
func (c *Client) CreateDocument(ctx context.Context, title, content string) (string, error) {
	if title == "" {
		return "", fmt.Errorf("title is required")
	}

	doc, err := c.docsService.Documents.Create(&docs.Document{Title: title}).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	if content != "" {
		requests := []*docs.Request{NewInsertTextRequest(1, content)}
		if _, err := c.BatchUpdate(ctx, doc.DocumentId, requests); err != nil {
			return "", err
		}
	}

	return doc.DocumentId, nil
}

// BatchUpdate applies a list of edit requests to a document atomically.
func (c *Client) BatchUpdate(ctx context.Context, documentID string, requests []*docs.Request) (*docs.BatchUpdateDocumentResponse, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("at least one request is required")
	}

	resp, err := c.docsService.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}

	return resp, nil
}

// UpdateHeaderFooter replaces the text of a document's first header or
// footer. sectionType is "header" or "footer". The section must already
// exist in the document; existing text is swapped for content via
// replaceAllText, and an empty section gets the content inserted at its
// first paragraph.
func (c *Client) UpdateHeaderFooter(ctx context.Context, documentID, sectionType, content string) error {
	if documentID == "" {
		return fmt.Errorf("documentID is required")
	}
	if content == "" {
		return fmt.Errorf("content is required")
	}

	doc, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	var sectionID string
	var elements []*docs.StructuralElement
	switch sectionType {
	case "header":
		for id, header := range doc.Headers {
			sectionID = id
			elements = header.Content
			break
		}
	case "footer":
		for id, footer := range doc.Footers {
			sectionID = id
			elements = footer.Content
			break
		}
	default:
		return fmt.Errorf("sectionType must be 'header' or 'footer', got %q", sectionType)
	}

	if sectionID == "" {
		return fmt.Errorf("document %s has no %s; add one in Google Docs first", documentID, sectionType)
	}

	var requests []*docs.Request
	if existing := firstRunText(elements); existing != "" {
		requests = append(requests, NewFindReplaceRequest(existing, content, false))
	} else {
		for _, element := range elements {
			if element != nil && element.Paragraph != nil {
				requests = append(requests, NewInsertTextSegmentRequest(element.StartIndex, content, sectionID))
				break
			}
		}
	}
	if len(requests) == 0 {
		return fmt.Errorf("could not locate %s content structure in document %s", sectionType, documentID)
	}

	_, err = c.BatchUpdate(ctx, documentID, requests)
	return err
}

// firstRunText returns the first non-whitespace text run in the elements,
// trimmed.
func firstRunText(elements []*docs.StructuralElement) string {
	for _, element := range elements {
		if element == nil || element.Paragraph == nil {
			continue
		}
		for _, elem := range element.Paragraph.Elements {
			if elem.TextRun == nil {
				continue
			}
			if text := strings.TrimSpace(elem.TextRun.Content); text != "" {
				return text
			}
		}
	}
	return ""
}

// SearchDocuments searches Google Docs by name via the Drive API.
func (c *Client) SearchDocuments(ctx context.Context, query string, pageSize int64) ([]*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	escaped := strings.ReplaceAll(query, "'", `\'`)
	q := fmt.Sprintf("name contains '%s' and mimeType='%s' and trashed=false", escaped, GoogleDocMimeType)

	resp, err := c.driveService.Files.List().
		Q(q).
		PageSize(pageSize).
		Fields("files(id, name, createdTime, modifiedTime, webViewLink)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	results := make([]*SearchResult, 0, len(resp.Files))
	for _, f := range resp.Files {
		results = append(results, &SearchResult{
			ID:           f.Id,
			Name:         f.Name,
			CreatedTime:  f.CreatedTime,
			ModifiedTime: f.ModifiedTime,
			WebViewLink:  f.WebViewLink,
		})
	}
	return results, nil
}

// ListInFolder lists Google Docs inside a Drive folder.
func (c *Client) ListInFolder(ctx context.Context, folderID string, pageSize int64) ([]*SearchResult, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folderID is required")
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	q := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", folderID, GoogleDocMimeType)

	resp, err := c.driveService.Files.List().
		Q(q).
		PageSize(pageSize).
		Fields("files(id, name, createdTime, modifiedTime, webViewLink)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in folder %s: %w", folderID, err)
	}

	results := make([]*SearchResult, 0, len(resp.Files))
	for _, f := range resp.Files {
		results = append(results, &SearchResult{
			ID:           f.Id,
			Name:         f.Name,
			CreatedTime:  f.CreatedTime,
			ModifiedTime: f.ModifiedTime,
			WebViewLink:  f.WebViewLink,
		})
	}
	return results, nil
}

// GetFileMetadata retrieves Drive metadata for any file.
func (c *Client) GetFileMetadata(ctx context.Context, fileID string) (*DocumentMetadata, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	file, err := c.driveService.Files.Get(fileID).
		Fields("id, name, mimeType, createdTime, modifiedTime, size, webViewLink, owners").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata %s: %w", fileID, err)
	}

	metadata := &DocumentMetadata{
		ID:           file.Id,
		Name:         file.Name,
		MimeType:     file.MimeType,
		CreatedTime:  file.CreatedTime,
		ModifiedTime: file.ModifiedTime,
		Size:         file.Size,
		WebViewLink:  file.WebViewLink,
	}
	for _, owner := range file.Owners {
		metadata.Owners = append(metadata.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}

	return metadata, nil
}
