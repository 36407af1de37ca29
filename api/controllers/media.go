package controllers

import (
	"net/http"

	"github.com/borrowbox/borrowbox-backend/api/responses"
	mediasvc "github.com/borrowbox/borrowbox-backend/internal/media"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
	"github.com/borrowbox/borrowbox-backend/pkg/logger"
)

// UploadMedia accepts a multipart picture upload and returns its public URL.
// The file goes under the "file" form field.
func UploadMedia(svc mediasvc.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(maxUploadMB) * 1024 * 1024
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer func() { _ = file.Close() }()

		out, err := svc.UploadPicture(r.Context(), mediasvc.UploadInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}
