package gateway

import (
	"io"
	"mime/multipart"

	"github.com/pkg/errors"
)

// FormFile is a named file part for multipart uploads.
type FormFile struct {
	Name   string
	Reader io.Reader
}

// WriteFile adds f to the multipart form under field.
func WriteFile(w *multipart.Writer, field string, f FormFile) error {
	part, err := w.CreateFormFile(field, f.Name)
	if err != nil {
		return errors.Wrapf(err, "create form file %q", field)
	}
	if _, err := io.Copy(part, f.Reader); err != nil {
		return errors.Wrapf(err, "copy form file %q", field)
	}
	return nil
}
