package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
)

var allowedMimeTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type uploader interface {
	Upload(ctx context.Context, r io.Reader, objectName, contentType string) (string, error)
}

// Service exposes picture upload semantics for items and profiles.
type Service interface {
	UploadPicture(ctx context.Context, input UploadInput) (*UploadOutput, error)
}

// UploadInput models one incoming file.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadOutput carries the stored object's public location.
type UploadOutput struct {
	URL        string `json:"url"`
	ObjectName string `json:"object_name"`
}

type service struct {
	storage        uploader
	maxUploadBytes int64
	now            func() time.Time
}

// NewService constructs a media service backed by the provided object storage.
func NewService(storage uploader, maxUploadMB int) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("object storage required")
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		storage:        storage,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
		now:            time.Now,
	}, nil
}

// UploadPicture validates the file and streams it to object storage.
func (s *service) UploadPicture(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if input.Size > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.maxUploadBytes))
	}

	contentType, err := sniffMimeType(input.ContentType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	ext, ok := allowedMimeTypes[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are accepted")
	}
	if fromName := strings.ToLower(path.Ext(input.Filename)); fromName != "" {
		ext = fromName
	}

	objectName := s.buildObjectName(ext)
	body := io.LimitReader(input.Body, s.maxUploadBytes)

	url, err := s.storage.Upload(ctx, body, objectName, contentType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gcs: upload picture")
	}

	return &UploadOutput{URL: url, ObjectName: objectName}, nil
}

func (s *service) buildObjectName(ext string) string {
	now := s.now().UTC()
	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), ext)
}

func sniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("content type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("content type invalid: %v", err)
	}
	return strings.ToLower(mediaType), nil
}
