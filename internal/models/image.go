package models

// MaxImageSize is the largest accepted upload (10 MiB).
const MaxImageSize = 10 * 1024 * 1024

// AllowedImageTypes is advertised by GET /api/upload. Uploads are accepted
// for any image/* type.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ImageUpload describes an incoming file before it is stored.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadedImage is the stored blob and its public URL.
type UploadedImage struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadInfo is the static capability description served by GET /api/upload.
type UploadInfo struct {
	MaxFileSize    string   `json:"maxFileSize"`
	AllowedTypes   []string `json:"allowedTypes"`
	UploadEndpoint string   `json:"uploadEndpoint"`
	Method         string   `json:"method"`
	ContentType    string   `json:"contentType"`
	FieldName      string   `json:"fieldName"`
}
