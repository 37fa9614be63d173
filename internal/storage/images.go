package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/estatehub/estate-service/internal/config"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

const (
	propertiesDir = "properties"
	// PublicPrefix is the URL path under which stored images are served.
	PublicPrefix = "/uploads"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// LocalImageStore keeps property images on the local filesystem.
type LocalImageStore struct {
	root     string
	maxBytes int64
	maxFiles int
	now      func() time.Time
}

// NewLocalImageStore prepares <dir>/properties for writing.
func NewLocalImageStore(cfg config.UploadConfig) (*LocalImageStore, error) {
	root := cfg.Dir
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(filepath.Join(root, propertiesDir), 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	return &LocalImageStore{
		root:     root,
		maxBytes: cfg.MaxFileBytes,
		maxFiles: cfg.MaxFiles,
		now:      time.Now,
	}, nil
}

// Root returns the directory served under PublicPrefix.
func (s *LocalImageStore) Root() string {
	return s.root
}

// SaveAll stores every file or none of them, returning the public URLs in order.
func (s *LocalImageStore) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("Please select at least one image to upload", nil)
	}
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Too many files. Maximum is %d images", s.maxFiles),
			map[string]any{"maxFiles": s.maxFiles},
		)
	}

	urls := make([]string, 0, len(files))
	for _, header := range files {
		url, err := s.save(header)
		if err != nil {
			s.Discard(urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *LocalImageStore) save(header *multipart.FileHeader) (string, error) {
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("File too large. Maximum size is %dMB", s.maxBytes/(1024*1024)),
			map[string]any{"file": header.Filename},
		)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return "", apperrors.NewValidationError(
			"Invalid file type. Only JPEG, PNG, GIF, and WebP images are allowed.",
			map[string]any{"file": header.Filename, "detected": detected.String()},
		)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := s.fileName(header.Filename, detected)
	dst, err := os.OpenFile(filepath.Join(s.root, propertiesDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}

	limit := header.Size
	if s.maxBytes > 0 {
		limit = s.maxBytes
	}
	written, copyErr := io.Copy(dst, io.LimitReader(src, limit+1))
	closeErr := dst.Close()
	if copyErr == nil && written > limit {
		copyErr = apperrors.NewValidationError("File too large", map[string]any{"file": header.Filename})
	}
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}

	return path.Join(PublicPrefix, propertiesDir, name), nil
}

// fileName builds <base>-<unixmillis>-<uuid8><ext>.
func (s *LocalImageStore) fileName(original string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(original))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		ext = detected.Extension()
	}
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s-%d-%s%s", base, s.now().UnixMilli(), uuid.NewString()[:8], ext)
}

// Discard removes files written for urls, ignoring failures.
func (s *LocalImageStore) Discard(urls []string) {
	for _, url := range urls {
		_ = s.Remove(url)
	}
}

// Remove deletes the file behind a public URL. URLs outside the store are ignored.
func (s *LocalImageStore) Remove(url string) error {
	full, ok := s.localPath(url)
	if !ok {
		return nil
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalImageStore) localPath(url string) (string, bool) {
	prefix := path.Join(PublicPrefix, propertiesDir) + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(s.root, propertiesDir, name), true
}
