// internal/app/features/publications/upload.go
package publications

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/labsite/internal/app/media"
	"go.uber.org/zap"
)

// coverFromForm uploads the "cover" file field through the media backend.
// An absent file is not an error: the zero ref comes back and the caller
// leaves the stored image untouched.
func (h *Handler) coverFromForm(ctx context.Context, r *http.Request) (media.ImageRef, error) {
	file, header, err := r.FormFile("cover")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return media.ImageRef{}, nil
		}
		return media.ImageRef{}, err
	}
	defer file.Close()

	in := media.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		Folder:      "publications",
	}
	ref, err := h.Media.Upload(ctx, in)
	if err != nil {
		h.Log.Warn("publications admin: cover upload failed",
			zap.String("backend", h.Media.Name()),
			zap.String("filename", header.Filename),
			zap.Error(err))
		return media.ImageRef{}, err
	}
	return ref, nil
}

// uploadMessage maps a media error to the message shown above the form.
func uploadMessage(err error) string {
	var verr *media.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var uerr *media.UploadError
	if errors.As(err, &uerr) {
		return "Uploading the image failed. Please try again."
	}
	return "Could not read the uploaded image."
}
