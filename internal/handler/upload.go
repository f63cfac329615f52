package handler

import (
	"errors"
	"net/http"

	"github.com/tyrecheck/tyrecheck-go/internal/service"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// UploadHandler accepts inspection image uploads.
type UploadHandler struct {
	service  *service.UploadService
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler. Request bodies larger than
// maxBytes are rejected.
func NewUploadHandler(svc *service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{service: svc, maxBytes: maxBytes}
}

// HandleUpload handles multipart POST /upload-image requests carrying a
// "file" part and a "FolderName" field.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart body"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(service.ErrFileRequired.Error()))
		return
	}
	defer file.Close()

	resp, err := h.service.Upload(r.Context(), r.FormValue("FolderName"), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFolderRequired),
			errors.Is(err, service.ErrInvalidFolder),
			errors.Is(err, service.ErrFileRequired),
			errors.Is(err, service.ErrInvalidFilename):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUnsupportedImage):
			writeJSON(w, http.StatusUnsupportedMediaType, errorResponse(err.Error()))
		default:
			internalError(w, r, "storing upload", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
