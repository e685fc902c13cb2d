package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits mirroring the schema's column widths.
const (
	maxTitleLen        = 200
	maxSlugLen         = 200
	maxCategoryNameLen = 100
	maxCommentNameLen  = 80
	maxEmailLen        = 254
)

// emailShape is a permissive address check; real deliverability is not the
// store's concern, only that the value is shaped like an email.
var emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// validateCategory checks category inputs and returns the first error found.
func validateCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "name is too long (max 100 characters)"
	}
	return ""
}

// validatePost checks post inputs and returns the first error found.
func validatePost(title, slug string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 200 characters)"
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "slug is too long (max 200 characters)"
	}
	return ""
}

// validateComment checks comment inputs and returns the first error found.
func validateComment(name, email, body string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxCommentNameLen {
		return "name is too long (max 80 characters)"
	}
	if len(email) > maxEmailLen || !emailShape.MatchString(email) {
		return "email is malformed"
	}
	if strings.TrimSpace(body) == "" {
		return "body is required"
	}
	return ""
}
