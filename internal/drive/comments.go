package drive

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
)

// Comment is a comment thread anchored to a Drive file (including Google
// Docs).
type Comment struct {
	ID           string  `json:"id"`
	Content      string  `json:"content"`
	Author       string  `json:"author,omitempty"`
	CreatedTime  string  `json:"createdTime,omitempty"`
	ModifiedTime string  `json:"modifiedTime,omitempty"`
	Resolved     bool    `json:"resolved"`
	QuotedText   string  `json:"quotedText,omitempty"`
	Replies      []Reply `json:"replies,omitempty"`
}

// Reply is one reply inside a comment thread.
type Reply struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Author      string `json:"author,omitempty"`
	CreatedTime string `json:"createdTime,omitempty"`
	Action      string `json:"action,omitempty"`
}

// commentFields is the field mask required by the Drive comments API.
const commentFields = "comments(id, content, author(displayName), createdTime, modifiedTime, resolved, quotedFileContent(value), replies(id, content, author(displayName), createdTime, action))"

// ListComments returns the comment threads of a file.
func (c *Client) ListComments(ctx context.Context, fileID string, pageSize int64) ([]*Comment, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	resp, err := c.service.Comments.List(fileID).
		Fields(commentFields).
		PageSize(pageSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for %s: %w", fileID, err)
	}

	comments := make([]*Comment, 0, len(resp.Comments))
	for _, apiComment := range resp.Comments {
		comments = append(comments, convertComment(apiComment))
	}
	return comments, nil
}

// CreateComment starts a new comment thread on a file.
func (c *Client) CreateComment(ctx context.Context, fileID, content string) (*Comment, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}

	apiComment, err := c.service.Comments.Create(fileID, &drive.Comment{Content: content}).
		Fields("id, content, author(displayName), createdTime, modifiedTime, resolved").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create comment on %s: %w", fileID, err)
	}

	return convertComment(apiComment), nil
}

// ReplyToComment adds a reply to an existing comment thread.
func (c *Client) ReplyToComment(ctx context.Context, fileID, commentID, content string) (*Reply, error) {
	if fileID == "" || commentID == "" {
		return nil, fmt.Errorf("fileID and commentID are required")
	}
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}

	apiReply, err := c.service.Replies.Create(fileID, commentID, &drive.Reply{Content: content}).
		Fields("id, content, author(displayName), createdTime, action").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to reply to comment %s on %s: %w", commentID, fileID, err)
	}

	return convertReply(apiReply), nil
}

// ResolveComment closes a comment thread by posting a resolving reply.
func (c *Client) ResolveComment(ctx context.Context, fileID, commentID string) error {
	if fileID == "" || commentID == "" {
		return fmt.Errorf("fileID and commentID are required")
	}

	_, err := c.service.Replies.Create(fileID, commentID, &drive.Reply{
		Action:  "resolve",
		Content: "Resolved",
	}).
		Fields("id, action").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to resolve comment %s on %s: %w", commentID, fileID, err)
	}

	return nil
}

func convertComment(apiComment *drive.Comment) *Comment {
	comment := &Comment{
		ID:           apiComment.Id,
		Content:      apiComment.Content,
		CreatedTime:  apiComment.CreatedTime,
		ModifiedTime: apiComment.ModifiedTime,
		Resolved:     apiComment.Resolved,
	}
	if apiComment.Author != nil {
		comment.Author = apiComment.Author.DisplayName
	}
	if apiComment.QuotedFileContent != nil {
		comment.QuotedText = apiComment.QuotedFileContent.Value
	}
	for _, apiReply := range apiComment.Replies {
		comment.Replies = append(comment.Replies, *convertReply(apiReply))
	}
	return comment
}

func convertReply(apiReply *drive.Reply) *Reply {
	reply := &Reply{
		ID:          apiReply.Id,
		Content:     apiReply.Content,
		CreatedTime: apiReply.CreatedTime,
		Action:      apiReply.Action,
	}
	if apiReply.Author != nil {
		reply.Author = apiReply.Author.DisplayName
	}
	return reply
}
