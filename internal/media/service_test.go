package media

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
)

type fakeUploader struct {
	objectName  string
	contentType string
	body        string
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, objectName, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objectName = objectName
	f.contentType = contentType
	f.body = string(data)
	return "https://storage.googleapis.com/test-bucket/" + objectName, nil
}

func newTestMediaService(storage *fakeUploader) *service {
	return &service{
		storage:        storage,
		maxUploadBytes: 1024,
		now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestUploadPicture(t *testing.T) {
	storage := &fakeUploader{}
	svc := newTestMediaService(storage)

	out, err := svc.UploadPicture(context.Background(), UploadInput{
		Filename:    "drill.png",
		ContentType: "image/png",
		Size:        9,
		Body:        strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("upload picture: %v", err)
	}
	if !strings.HasPrefix(out.ObjectName, "uploads/2025/06/") {
		t.Fatalf("unexpected object name %q", out.ObjectName)
	}
	if !strings.HasSuffix(out.ObjectName, ".png") {
		t.Fatalf("expected .png suffix, got %q", out.ObjectName)
	}
	if storage.contentType != "image/png" {
		t.Fatalf("expected image/png content type, got %q", storage.contentType)
	}
	if storage.body != "png-bytes" {
		t.Fatalf("expected body to be streamed, got %q", storage.body)
	}
	if !strings.HasSuffix(out.URL, out.ObjectName) {
		t.Fatalf("expected url to reference object, got %q", out.URL)
	}
}

func TestUploadPictureRejections(t *testing.T) {
	svc := newTestMediaService(&fakeUploader{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input UploadInput
	}{
		{"missing body", UploadInput{ContentType: "image/png"}},
		{"missing content type", UploadInput{Body: strings.NewReader("x")}},
		{"non image", UploadInput{ContentType: "application/pdf", Body: strings.NewReader("x")}},
		{"too large", UploadInput{ContentType: "image/png", Size: 4096, Body: strings.NewReader("x")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadPicture(ctx, tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error code, got %v", err)
			}
		})
	}
}
