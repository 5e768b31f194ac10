package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxChannelIDLen   = 32  // channel_profiles.channel_id VARCHAR(32)
	MaxUserIDLen      = 64  // channel_profiles.user_id VARCHAR(64)
	MaxSearchQueryLen = 100 // niche search query cap
	MaxChannelURLLen  = 256
)

var (
	// channelIDRe matches YouTube channel IDs: alphanumeric, dash, underscore.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// userIDRe matches opaque user identifiers issued by the auth layer.
	userIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// searchQueryRe allows word characters, spaces, and light punctuation.
	searchQueryRe = regexp.MustCompile(`^[\p{L}\p{N}\s.,'&+#-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// UserID extracts the authenticated user's ID from the X-User-ID header set
// by the auth gateway. Empty when the request is unauthenticated.
func UserID(c fiber.Ctx) string {
	id, _ := ValidateUserID(c.Get("X-User-ID"))
	return id
}

// RequireUser rejects requests that arrive without a valid X-User-ID header.
func RequireUser() fiber.Handler {
	return func(c fiber.Ctx) error {
		if UserID(c) == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}
		return c.Next()
	}
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 32 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateUserID checks that a user ID is well-formed.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "userId is required"
	}
	if len(id) > MaxUserIDLen {
		return "", "userId must be at most 64 characters"
	}
	if !userIDRe.MatchString(id) {
		return "", "userId contains invalid characters"
	}
	return id, ""
}

// ValidateSearchQuery checks a niche search query against the length and
// character constraints.
func ValidateSearchQuery(q string) (string, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", "query is required"
	}
	if len(q) > MaxSearchQueryLen {
		return "", "query must be at most 100 characters"
	}
	if !searchQueryRe.MatchString(q) {
		return "", "query contains invalid characters"
	}
	return q, ""
}

// ValidateChannelURL trims a channel URL and enforces a sane length cap.
func ValidateChannelURL(url string) (string, string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", "channelUrl is required"
	}
	if len(url) > MaxChannelURLLen {
		return "", "channelUrl is too long"
	}
	return url, ""
}
