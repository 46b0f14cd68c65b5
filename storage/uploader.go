package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores team assets in an object store.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// LogoExtension returns the file extension for an accepted logo content type.
func LogoExtension(contentType string) (string, bool) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	ext, ok := logoExtensions[strings.ToLower(strings.TrimSpace(mediaType))]
	return ext, ok
}

// TeamLogoKey builds a unique object key for a team logo. The timestamp keeps
// CDN caches from serving a replaced logo.
func TeamLogoKey(teamID int, ext string, now time.Time) string {
	return fmt.Sprintf("teams/%d/logo-%d%s", teamID, now.UnixNano(), ext)
}
