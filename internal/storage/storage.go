package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/jewelry-store/internal/config"
	apperrors "github.com/spec-kit/jewelry-store/pkg/util"
)

// MaxImageSize caps a single uploaded image at 5 MB.
const MaxImageSize = 5 * 1024 * 1024

// MaxImagesPerRequest caps how many images one request may attach.
const MaxImagesPerRequest = 5

// ImageStore persists uploaded product images and returns their public URLs.
type ImageStore interface {
	Save(ctx context.Context, originalName, mimeType string, r io.Reader) (string, error)
}

// DiskStore writes images to the local filesystem. The advertised URL follows the
// configured storage type; bytes always land on disk, matching the behavior the
// upload path has always had.
type DiskStore struct {
	cfg config.StorageConfig
}

// NewDiskStore ensures the upload directory exists.
func NewDiskStore(cfg config.StorageConfig) (*DiskStore, error) {
	if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{cfg: cfg}, nil
}

// Save stores one image and returns its public URL.
func (s *DiskStore) Save(_ context.Context, originalName, mimeType string, r io.Reader) (string, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return "", apperrors.NewValidationError("only image files are allowed", map[string]any{"mime_type": mimeType})
	}

	ext := filepath.Ext(originalName)
	filename := fmt.Sprintf("images-%s%s", uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(s.cfg.LocalDir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", err
	}
	if written > MaxImageSize {
		_ = os.Remove(dst.Name())
		return "", apperrors.NewValidationError("image exceeds 5MB limit", map[string]any{"file": originalName})
	}

	return s.publicURL(filename), nil
}

func (s *DiskStore) publicURL(filename string) string {
	switch s.cfg.Type {
	case "cloudinary":
		return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/v1/%s", s.cfg.CloudinaryCloudName, filename)
	case "s3":
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.S3Bucket, filename)
	default:
		return "/uploads/products/" + filename
	}
}
