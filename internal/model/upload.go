package model

// UploadResponse describes a stored inspection image.
type UploadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Folder   string `json:"folder"`
	Path     string `json:"path"`
}
