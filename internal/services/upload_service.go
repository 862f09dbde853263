package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"marketplace/internal/format"
	"marketplace/internal/models"
	"marketplace/internal/storage"
	"marketplace/internal/validation"
)

// UploadEndpoint is where clients POST images.
const UploadEndpoint = "/api/upload"

// URLVerifier checks that a freshly uploaded image is publicly reachable.
type URLVerifier interface {
	Verify(ctx context.Context, url string) error
}

// HeadVerifier issues an HTTP HEAD against the public URL.
type HeadVerifier struct {
	Timeout time.Duration
}

// Verify fails unless the URL answers HEAD with a 2xx status.
func (v HeadVerifier) Verify(ctx context.Context, url string) error {
	agent := fiber.Head(url)
	if v.Timeout > 0 {
		agent.Timeout(v.Timeout)
	}
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("prepare HEAD %s: %w", url, err)
	}
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("HEAD %s: %w", url, errs[0])
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return fmt.Errorf("HEAD %s: unexpected status %d", url, code)
	}
	return nil
}

// UploadService stores listing images in the blob store.
type UploadService struct {
	store    storage.ImageStore
	verifier URLVerifier
	log      *zap.Logger
	now      func() time.Time
}

// NewUploadService creates a new UploadService. verifier may be nil to skip
// the reachability check.
func NewUploadService(store storage.ImageStore, verifier URLVerifier, log *zap.Logger) *UploadService {
	return &UploadService{
		store:    store,
		verifier: verifier,
		log:      log,
		now:      time.Now,
	}
}

// Info describes what POST /api/upload accepts.
func (s *UploadService) Info() models.UploadInfo {
	allowed := make([]string, len(models.AllowedImageTypes))
	copy(allowed, models.AllowedImageTypes)
	return models.UploadInfo{
		MaxFileSize:    "10MB",
		AllowedTypes:   allowed,
		UploadEndpoint: UploadEndpoint,
		Method:         http.MethodPost,
		ContentType:    "multipart/form-data",
		FieldName:      "file",
	}
}

// UploadImage validates the file, stores it under a fresh key and returns
// its public URL.
func (s *UploadService) UploadImage(ctx context.Context, upload models.ImageUpload) (*models.UploadedImage, error) {
	if err := validation.ValidateUpload(upload); err != nil {
		return nil, err
	}

	token, err := format.RandomToken(format.TokenLength)
	if err != nil {
		return nil, err
	}
	key := format.UploadKey(upload.Filename, s.now(), token)

	url, err := s.store.Put(ctx, key, upload.Data, upload.ContentType)
	if err != nil {
		s.log.Error("upload image failed",
			zap.String("key", key),
			zap.String("filename", upload.Filename),
			zap.Int64("size", upload.Size),
			zap.Error(err))
		return nil, err
	}

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, url); err != nil {
			s.log.Warn("uploaded image not reachable", zap.String("url", url), zap.Error(err))
		}
	}

	s.log.Info("image uploaded", zap.String("key", key), zap.Int64("size", upload.Size))
	return &models.UploadedImage{URL: url, Key: key}, nil
}

// DeleteImage removes a stored image by key.
func (s *UploadService) DeleteImage(ctx context.Context, key string) error {
	if err := validation.ValidateImageKey(key); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Error("delete image failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
