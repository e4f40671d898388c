package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/okra-platform/rowview/internal/navigator"
)

// uploadField is the multipart form field carrying the file
const uploadField = "file"

// ErrInvalidUpload is returned for a missing file, a wrong extension or an oversized body
var ErrInvalidUpload = errors.New("invalid upload")

// handleUpload stores an uploaded file and points the session at it.
// Invalid uploads are ignored and the current page is shown again.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, err := s.openUpload(w, r)
	if err != nil {
		s.logger.Debug().Err(err).Msg("upload ignored")
		s.renderCurrent(w, r, s.sessions.Load(r))
		return
	}
	defer file.Close()

	id, err := s.datasets.Save(r.Context(), file)
	if err != nil {
		s.serverError(w, err, navigator.Session{})
		return
	}

	if err := s.sessions.Save(w, navigator.Reset(id)); err != nil {
		s.serverError(w, err, navigator.Session{DatasetID: id})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// openUpload returns the uploaded file when it passes validation
func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	if s.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}

	if !strings.HasSuffix(header.Filename, s.opts.Extension) {
		file.Close()
		return nil, fmt.Errorf("%w: %q does not end in %s", ErrInvalidUpload, header.Filename, s.opts.Extension)
	}

	return file, nil
}
