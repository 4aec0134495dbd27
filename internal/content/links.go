package content

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	driveFilePattern  = regexp.MustCompile(`/file/d/([^/?]+)`)
	driveQueryPattern = regexp.MustCompile(`id=([^&]+)`)
	nonDigitPattern   = regexp.MustCompile(`[^0-9]`)
)

// DriveImageURL rewrites a Google Drive share link into a direct thumbnail URL
// suitable for an <img> tag. Other URLs are returned unchanged.
func DriveImageURL(raw string) string {
	value := strings.TrimSpace(raw)
	if !strings.Contains(value, "drive.google.com") {
		return value
	}

	var fileID string
	switch {
	case strings.Contains(value, "/file/d/"):
		if m := driveFilePattern.FindStringSubmatch(value); m != nil {
			fileID = m[1]
		}
	case strings.Contains(value, "id="):
		if m := driveQueryPattern.FindStringSubmatch(value); m != nil {
			fileID = m[1]
		}
	}
	if fileID == "" {
		return value
	}
	return "https://drive.google.com/thumbnail?id=" + url.QueryEscape(fileID) + "&sz=w1000"
}

// MailtoURL builds a mailto link, or "" when no address is configured.
func MailtoURL(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

// WhatsAppURL builds a wa.me chat link from a phone number in any format.
func WhatsAppURL(number string) string {
	digits := nonDigitPattern.ReplaceAllString(number, "")
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}

// InstagramURL builds a profile link from a handle with or without a leading @.
func InstagramURL(handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return ""
	}
	return "https://www.instagram.com/" + url.PathEscape(handle) + "/"
}

// InstagramHandle returns the display form of a handle, always prefixed with @.
func InstagramHandle(handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return ""
	}
	return "@" + handle
}

// Stars renders a rating as filled and empty star glyphs.
func Stars(rating int) string {
	rating = ClampRating(rating)
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}
