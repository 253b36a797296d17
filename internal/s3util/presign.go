// Package s3util generates presigned URLs for wardrobe item photos so
// mobile clients upload directly to S3 instead of proxying bytes
// through the API.
package s3util

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// maxImageBytes caps a single wardrobe photo upload.
	maxImageBytes = 10 * 1024 * 1024

	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = 1 * time.Hour
)

// allowedContentTypes is the content-type allowlist for wardrobe photos.
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

var safeFilenameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\- ()]+$`)

// Presigner issues time-limited S3 URLs for a single bucket.
type Presigner struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

func NewPresigner(client *s3.Client, bucket string) *Presigner {
	return &Presigner{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}
}

// ValidateFilename rejects names with path components or characters
// outside the safe set.
func ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("filename is required")
	}
	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("filename contains invalid characters")
	}
	if !safeFilenameRegex.MatchString(name) {
		return fmt.Errorf("filename contains invalid characters; only alphanumeric, dots, hyphens, underscores, spaces, and parentheses allowed")
	}
	return nil
}

// ValidateContentType checks the upload content type against the
// photo allowlist.
func ValidateContentType(contentType string) error {
	if !allowedContentTypes[contentType] {
		return fmt.Errorf("content type %q not allowed; wardrobe photos must be jpeg, png, webp, or heic", contentType)
	}
	return nil
}

// UploadURL returns a presigned PUT URL and the object key for a new
// wardrobe photo. Keys are namespaced per user: wardrobe/<userID>/<uuid>-<filename>.
func (p *Presigner) UploadURL(ctx context.Context, userID int64, filename, contentType string) (url, key string, err error) {
	filename = filepath.Base(filename)
	if err := ValidateFilename(filename); err != nil {
		return "", "", err
	}
	if err := ValidateContentType(contentType); err != nil {
		return "", "", err
	}

	key = fmt.Sprintf("wardrobe/%d/%s-%s", userID, uuid.NewString(), filename)

	result, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        &p.bucket,
		Key:           &key,
		ContentType:   &contentType,
		ContentLength: aws.Int64(maxImageBytes),
	}, s3.WithPresignExpires(uploadURLExpiry))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to generate presigned upload URL")
		return "", "", fmt.Errorf("presign PutObject: %w", err)
	}

	return result.URL, key, nil
}

// FinalizeUpload tags a freshly uploaded photo for cost allocation and
// returns a presigned GET URL the client can store as the item's image
// URL. The key must sit under the caller's wardrobe prefix.
func (p *Presigner) FinalizeUpload(ctx context.Context, userID int64, key string) (string, error) {
	expectedPrefix := fmt.Sprintf("wardrobe/%d/", userID)
	if !strings.HasPrefix(key, expectedPrefix) || strings.Contains(key, "..") {
		return "", fmt.Errorf("key does not belong to this user's wardrobe")
	}

	if err := TagObject(ctx, p.client, p.bucket, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to tag uploaded photo; continuing")
	}

	return p.DownloadURL(ctx, key)
}

// DownloadURL returns a presigned GET URL for an existing photo key.
func (p *Presigner) DownloadURL(ctx context.Context, key string) (string, error) {
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid key")
	}

	result, err := p.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &p.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(downloadURLExpiry))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to generate presigned download URL")
		return "", fmt.Errorf("presign GetObject: %w", err)
	}

	return result.URL, nil
}
