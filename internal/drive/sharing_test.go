package drive

import (
	"strings"
	"testing"
)

func TestHasPublicLinkPermission(t *testing.T) {
	tests := []struct {
		name        string
		permissions []Permission
		want        bool
	}{
		{
			name: "anyone reader",
			permissions: []Permission{
				{Type: "anyone", Role: "reader"},
			},
			want: true,
		},
		{
			name: "anyone commenter",
			permissions: []Permission{
				{Type: "user", Role: "owner", EmailAddress: "me@example.com"},
				{Type: "anyone", Role: "commenter"},
			},
			want: true,
		},
		{
			name: "only user permissions",
			permissions: []Permission{
				{Type: "user", Role: "owner", EmailAddress: "me@example.com"},
				{Type: "user", Role: "reader", EmailAddress: "you@example.com"},
			},
			want: false,
		},
		{
			name: "domain sharing is not public",
			permissions: []Permission{
				{Type: "domain", Role: "reader", Domain: "example.com"},
			},
			want: false,
		},
		{
			name: "anyone with unexpected role",
			permissions: []Permission{
				{Type: "anyone", Role: "owner"},
			},
			want: false,
		},
		{
			name:        "no permissions",
			permissions: nil,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPublicLinkPermission(tt.permissions); got != tt.want {
				t.Errorf("HasPublicLinkPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPublicImageURL(t *testing.T) {
	got := PublicImageURL("abc123")
	want := "https://drive.google.com/uc?export=view&id=abc123"
	if got != want {
		t.Errorf("PublicImageURL() = %s, want %s", got, want)
	}
}

func TestFormatPublicSharingError(t *testing.T) {
	msg := FormatPublicSharingError("diagram.png", "abc123")

	if !strings.Contains(msg, "diagram.png") {
		t.Errorf("message should name the file: %s", msg)
	}
	if !strings.Contains(msg, "abc123") {
		t.Errorf("message should include the file ID: %s", msg)
	}
	if !strings.Contains(msg, "Anyone with the link") {
		t.Errorf("message should explain the fix: %s", msg)
	}
}

func TestDescribePermission(t *testing.T) {
	tests := []struct {
		perm Permission
		want string
	}{
		{Permission{Type: "anyone", Role: "reader"}, "Anyone with the link (reader)"},
		{Permission{Type: "user", Role: "writer", EmailAddress: "a@b.c"}, "User: a@b.c (writer)"},
		{Permission{Type: "domain", Role: "reader", Domain: "b.c"}, "Domain: b.c (reader)"},
		{Permission{Type: "weird", Role: "reader"}, "weird (reader)"},
	}

	for _, tt := range tests {
		if got := DescribePermission(tt.perm); got != tt.want {
			t.Errorf("DescribePermission(%v) = %s, want %s", tt.perm, got, tt.want)
		}
	}
}
