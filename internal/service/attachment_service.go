package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/repository/storage"
)

const (
	ProfilePictureMaxWidth = 512
	JPEGQuality            = 85
)

var (
	ErrFileTooLarge             = fmt.Errorf("%w: file too large, maximum size is 10MB", domain.ErrInvalidFile)
	ErrPictureTooLarge          = fmt.Errorf("%w: picture too large, maximum size is 5MB", domain.ErrInvalidFile)
	ErrUnsupportedFileType      = fmt.Errorf("%w: supported types are images, PDF and Word documents", domain.ErrInvalidFile)
	ErrUnsupportedImageType     = fmt.Errorf("%w: supported types are JPEG, PNG, GIF and WebP", domain.ErrInvalidFile)
	ErrEmptyFile                = fmt.Errorf("%w: file is empty", domain.ErrInvalidFile)
	ErrInvalidImageData         = fmt.Errorf("%w: invalid image data", domain.ErrInvalidFile)
	ErrAttachmentsNotConfigured = errors.New("attachment storage not configured")
)

// AllowedAttachmentTypes maps accepted MIME types to their default extension
var AllowedAttachmentTypes = map[string]string{
	"image/jpeg":         ".jpg",
	"image/jpg":          ".jpg",
	"image/png":          ".png",
	"image/gif":          ".gif",
	"image/webp":         ".webp",
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// AllowedImageTypes contains the MIME types accepted for profile pictures
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// FileUpload is an uploaded file read into memory
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AttachmentService validates and stores record attachments and profile pictures
type AttachmentService struct {
	storage storage.FileRepository
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(storage storage.FileRepository) *AttachmentService {
	return &AttachmentService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *AttachmentService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// contentType resolves the upload's MIME type, falling back to sniffing the bytes
func (u *FileUpload) contentType() string {
	ct := strings.ToLower(strings.TrimSpace(u.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(u.Data)
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
	}
	return ct
}

// ValidateAttachment checks type and size of a record attachment
func (s *AttachmentService) ValidateAttachment(upload *FileUpload) error {
	if len(upload.Data) == 0 {
		return ErrEmptyFile
	}
	if len(upload.Data) > domain.MaxAttachmentSize {
		return ErrFileTooLarge
	}
	if _, ok := AllowedAttachmentTypes[upload.contentType()]; !ok {
		return ErrUnsupportedFileType
	}
	return nil
}

// Save validates and stores a record attachment, returning its file reference
func (s *AttachmentService) Save(ctx context.Context, upload *FileUpload) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAttachmentsNotConfigured
	}
	if err := s.ValidateAttachment(upload); err != nil {
		return "", err
	}

	ct := upload.contentType()
	return s.store(ctx, upload.Data, ct, extensionFor(upload.Filename, ct))
}

// Stage saves an optional attachment; a nil upload yields an empty reference
func (s *AttachmentService) Stage(ctx context.Context, upload *FileUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	return s.Save(ctx, upload)
}

// SaveProfilePicture validates an image, downsizes it when wider than
// ProfilePictureMaxWidth and stores it, returning its file reference
func (s *AttachmentService) SaveProfilePicture(ctx context.Context, upload *FileUpload) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAttachmentsNotConfigured
	}
	if len(upload.Data) == 0 {
		return "", ErrEmptyFile
	}
	if len(upload.Data) > domain.MaxProfilePictureSize {
		return "", ErrPictureTooLarge
	}

	ct := upload.contentType()
	if !AllowedImageTypes[ct] {
		return "", ErrUnsupportedImageType
	}

	// WebP has no decoder registered; it is stored unmodified
	if ct == "image/webp" {
		return s.store(ctx, upload.Data, ct, ".webp")
	}

	img, err := imaging.Decode(bytes.NewReader(upload.Data), imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrInvalidImageData
	}

	if img.Bounds().Dx() <= ProfilePictureMaxWidth {
		return s.store(ctx, upload.Data, ct, extensionFor(upload.Filename, ct))
	}

	var resized image.Image = imaging.Resize(img, ProfilePictureMaxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return s.store(ctx, buf.Bytes(), "image/jpeg", ".jpg")
}

func (s *AttachmentService) store(ctx context.Context, data []byte, contentType, ext string) (string, error) {
	objectPath := storage.GenerateObjectPath(ext)
	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(data), contentType, int64(len(data))); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	return storage.URLPrefix + objectPath, nil
}

// Delete removes a stored file by its reference
func (s *AttachmentService) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrAttachmentsNotConfigured
	}
	objectPath := storage.ObjectPathFromReference(ref)
	if objectPath == "" {
		return nil
	}
	return s.storage.Delete(ctx, objectPath)
}

// Discard deletes a file on a best-effort basis; failures are only logged
func (s *AttachmentService) Discard(ctx context.Context, ref string) {
	if ref == "" || !s.IsEnabled() {
		return
	}
	if err := s.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str("file", ref).Msg("Failed to delete attachment")
	}
}

// URL returns a client-facing URL for a stored object
func (s *AttachmentService) URL(ctx context.Context, objectPath string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAttachmentsNotConfigured
	}
	if objectPath == "" || strings.Contains(objectPath, "/") || strings.Contains(objectPath, "..") {
		return "", domain.ErrNotFound
	}
	return s.storage.GenerateURL(ctx, objectPath)
}

// extensionFor keeps the original extension when it agrees with the content type
func extensionFor(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	def := AllowedAttachmentTypes[contentType]
	switch {
	case ext == "":
		return def
	case ext == def:
		return ext
	case ext == ".jpeg" && def == ".jpg":
		return ext
	}
	return def
}
