package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/content"
	"portfolio-site/internal/policy"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

var errUploadTooLarge = errors.New("uploaded file is too large")
var errNotAnImage = errors.New("uploaded file is not an image")

// parseForm reads urlencoded and multipart bodies alike.
func parseForm(r *http.Request) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errUploadTooLarge
	}
	return err
}

// formUpload returns the file posted in field, or nil when none was chosen.
// The caller closes the returned closer.
func formUpload(r *http.Request, field string) (*baas.Upload, io.Closer, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	if header.Size == 0 {
		file.Close()
		return nil, nil, nil
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		file.Close()
		return nil, nil, errNotAnImage
	}
	return &baas.Upload{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, file, nil
}

func confirmed(r *http.Request) bool {
	return r.PostFormValue("confirm") == "yes"
}

// statusFor maps a content error to the HTTP status of the page showing it.
func statusFor(err error) int {
	var (
		validation *content.ValidationError
		denied     *policy.DeniedError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.Is(err, errNotAnImage):
		return http.StatusBadRequest
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &denied), errors.Is(err, content.ErrAuthorizationDenied):
		return http.StatusForbidden
	case errors.Is(err, content.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// message renders err for a banner, including upload problems the content
// layer never sees.
func message(err error) string {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return "The image is too large."
	case errors.Is(err, errNotAnImage):
		return "Please choose an image file."
	default:
		return content.UserMessage(err)
	}
}
