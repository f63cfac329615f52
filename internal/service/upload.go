package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/storage"
)

// sniffLen is the number of bytes http.DetectContentType considers.
const sniffLen = 512

var (
	ErrFolderRequired   = errors.New("FolderName is required")
	ErrInvalidFolder    = errors.New("FolderName may only contain letters, digits, '-' and '_' (max 64)")
	ErrFileRequired     = errors.New("file is required")
	ErrInvalidFilename  = errors.New("invalid file name")
	ErrUnsupportedImage = errors.New("file must be a JPEG, PNG, WebP or GIF image")
)

var folderRx = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadService validates and stores inspection images.
type UploadService struct {
	store storage.ImageStore
}

// NewUploadService creates a new UploadService.
func NewUploadService(store storage.ImageStore) *UploadService {
	return &UploadService{store: store}
}

// Upload stores body as folder/filename. The content type is taken from the
// leading bytes, not from the client.
func (s *UploadService) Upload(ctx context.Context, folder, filename string, body io.Reader) (model.UploadResponse, error) {
	if folder == "" {
		return model.UploadResponse{}, ErrFolderRequired
	}
	if !folderRx.MatchString(folder) {
		return model.UploadResponse{}, ErrInvalidFolder
	}
	if body == nil {
		return model.UploadResponse{}, ErrFileRequired
	}

	name := baseName(filename)
	if name == "" {
		return model.UploadResponse{}, ErrInvalidFilename
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return model.UploadResponse{}, fmt.Errorf("reading upload: %w", err)
	}
	if n == 0 {
		return model.UploadResponse{}, ErrFileRequired
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !allowedImageTypes[contentType] {
		return model.UploadResponse{}, fmt.Errorf("%w: got %s", ErrUnsupportedImage, contentType)
	}

	location, err := s.store.Save(ctx, folder, name, contentType, io.MultiReader(bytes.NewReader(head), body))
	if err != nil {
		return model.UploadResponse{}, fmt.Errorf("saving image: %w", err)
	}

	slog.Info("image uploaded", "folder", folder, "filename", name, "content_type", contentType)

	return model.UploadResponse{
		Status:   "success",
		Filename: name,
		Folder:   folder,
		Path:     location,
	}, nil
}

// baseName strips any client supplied directories, including Windows style
// ones. It returns "" when nothing usable is left.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	switch name {
	case ".", "..", "/":
		return ""
	}
	return strings.TrimSpace(name)
}
