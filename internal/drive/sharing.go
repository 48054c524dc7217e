package drive

import "fmt"

// HasPublicLinkPermission reports whether the permission list contains an
// "anyone with the link" grant that allows at least viewing.
func HasPublicLinkPermission(permissions []Permission) bool {
	for _, p := range permissions {
		if p.Type != "anyone" {
			continue
		}
		switch p.Role {
		case "reader", "writer", "commenter":
			return true
		}
	}
	return false
}

// PublicImageURL returns the Drive URL format usable for embedding a
// publicly shared image into a Google Doc.
func PublicImageURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/uc?export=view&id=%s", fileID)
}

// ShareURL returns the human-facing sharing link for a file.
func ShareURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=sharing", fileID)
}

// FormatPublicSharingError builds the guidance shown when a file is not
// shared publicly and therefore cannot be embedded into a Google Doc.
func FormatPublicSharingError(fileName, fileID string) string {
	return fmt.Sprintf(
		"Permission error: %q is not shared publicly. "+
			"Set 'Anyone with the link' -> 'Viewer' in Google Drive sharing. "+
			"File: https://drive.google.com/file/d/%s/view",
		fileName, fileID,
	)
}

// DescribePermission renders one permission entry for a sharing report.
func DescribePermission(p Permission) string {
	switch p.Type {
	case "anyone":
		return fmt.Sprintf("Anyone with the link (%s)", p.Role)
	case "user":
		return fmt.Sprintf("User: %s (%s)", p.EmailAddress, p.Role)
	case "group":
		return fmt.Sprintf("Group: %s (%s)", p.EmailAddress, p.Role)
	case "domain":
		return fmt.Sprintf("Domain: %s (%s)", p.Domain, p.Role)
	default:
		return fmt.Sprintf("%s (%s)", p.Type, p.Role)
	}
}
