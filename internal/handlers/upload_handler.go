package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"marketplace/internal/models"
	"marketplace/internal/services"
	"marketplace/internal/storage"
	"marketplace/internal/validation"
)

const uploadField = "file"

// UploadHandler handles image uploads.
type UploadHandler struct {
	service *services.UploadService
	log     *zap.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *services.UploadService, log *zap.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the upload routes with the Fiber router.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	uploadRoutes := router.Group("/upload")
	uploadRoutes.Get("/", h.HandleUploadInfo)
	uploadRoutes.Post("/", h.HandleUpload)
	uploadRoutes.Delete("/:key", h.HandleDeleteImage)
}

// HandleUploadInfo describes the accepted uploads.
func (h *UploadHandler) HandleUploadInfo(c *fiber.Ctx) error {
	return respondSuccess(c, fiber.StatusOK, h.service.Info(), "Upload configuration retrieved")
}

// HandleUpload stores the multipart "file" field and returns its URL.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid form data", "Request must include multipart/form-data")
	}
	files := form.File[uploadField]
	if len(files) == 0 {
		return respondFailure(c, validation.ErrMissingFile, "", "")
	}
	header := files[0]

	upload := models.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
	}
	// Checked here from the multipart header so oversized or non-image files
	// are rejected before their bytes are read; UploadImage checks again for
	// callers outside HTTP.
	if err := validation.ValidateUpload(upload); err != nil {
		return respondFailure(c, err, "", "")
	}

	f, err := header.Open()
	if err != nil {
		h.log.Error("open uploaded file failed", zap.String("filename", header.Filename), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Upload failed", "Internal server error during file upload")
	}
	defer f.Close()
	upload.Data, err = io.ReadAll(f)
	if err != nil {
		h.log.Error("read uploaded file failed", zap.String("filename", header.Filename), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Upload failed", "Internal server error during file upload")
	}

	uploaded, err := h.service.UploadImage(c.UserContext(), upload)
	if err != nil {
		return respondFailure(c, err, "Upload failed", "Failed to upload image to storage")
	}
	return respondSuccess(c, fiber.StatusCreated, uploaded, "Image uploaded successfully")
}

// HandleDeleteImage removes a stored image.
func (h *UploadHandler) HandleDeleteImage(c *fiber.Ctx) error {
	if err := h.service.DeleteImage(c.UserContext(), c.Params("key")); err != nil {
		return respondFailure(c, err, "Delete failed", "Failed to delete image from storage")
	}
	return respondSuccess(c, fiber.StatusOK, nil, "Image deleted successfully")
}

// ImageHandler serves images held by a MemoryStore so its URLs resolve
// when no external blob store is configured.
type ImageHandler struct {
	store *storage.MemoryStore
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(store *storage.MemoryStore) *ImageHandler {
	return &ImageHandler{store: store}
}

// RegisterRoutes registers GET /images/:key.
func (h *ImageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/images/:key", h.HandleGetImage)
}

// HandleGetImage writes the stored bytes with their content type.
func (h *ImageHandler) HandleGetImage(c *fiber.Ctx) error {
	obj, ok := h.store.Get(c.Params("key"))
	if !ok {
		return respondError(c, fiber.StatusNotFound, "Image not found", "No image stored under this key")
	}
	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.Send(obj.Data)
}
