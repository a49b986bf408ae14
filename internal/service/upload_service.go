package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/models"
	"blog-admin/internal/storage"
)

const (
	uploadPrefix = "uploads/"
	presignTTL   = time.Hour
)

// UploadService relays images to object storage.
// Keys live under uploads/<ownerID>/ and only the owner may delete them.
type UploadService interface {
	Upload(ctx context.Context, ownerID, filename, contentType string, body io.Reader) (*models.UploadResponse, error)
	Presign(ctx context.Context, ownerID, contentType string) (*models.PresignResponse, error)
	Delete(ctx context.Context, ownerID, key string) error
}

type uploadService struct {
	store    storage.ObjectStorage
	maxBytes int64
	newID    func() string
}

// NewUploadService creates an upload relay writing to store
func NewUploadService(store storage.ObjectStorage, maxBytes int64) UploadService {
	return &uploadService{
		store:    store,
		maxBytes: maxBytes,
		newID:    func() string { return uuid.NewString() },
	}
}

// Upload stores body under uploads/<ownerID>/<uuid>/<filename> with public-read access.
// A missing filename fails before storage is contacted.
func (s *uploadService) Upload(ctx context.Context, ownerID, filename, contentType string, body io.Reader) (*models.UploadResponse, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return nil, apperrors.ErrMissingFilename
	}
	if body == nil {
		return nil, apperrors.NewValidationError("file", "is required")
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, apperrors.NewValidationError("file", "could not be read")
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("file", "is required")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("must be at most %d bytes", s.maxBytes))
	}

	contentType = resolveContentType(name, contentType, data)
	key := ownerPrefix(ownerID) + s.newID() + "/" + name

	obj, err := s.store.PutPublic(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperrors.Upstream("upload object", err)
	}

	logrus.WithFields(logrus.Fields{
		"key":   obj.Key,
		"size":  obj.Size,
		"owner": ownerID,
	}).Info("image uploaded")
	return &models.UploadResponse{
		URL:         obj.URL,
		Pathname:    obj.Key,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	}, nil
}

// Presign issues a one hour PUT URL for a direct browser upload under uploads/<ownerID>/<uuid>
func (s *uploadService) Presign(ctx context.Context, ownerID, contentType string) (*models.PresignResponse, error) {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return nil, apperrors.NewValidationError("contentType", "is required")
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return nil, apperrors.NewValidationError("contentType", "must be a valid media type")
	}

	key := ownerPrefix(ownerID) + s.newID()
	uploadURL, err := s.store.PresignPut(ctx, key, contentType, presignTTL)
	if err != nil {
		return nil, apperrors.Upstream("presign upload", err)
	}

	return &models.PresignResponse{
		UploadURL: uploadURL,
		PublicURL: s.store.PublicURL(key),
		Key:       key,
	}, nil
}

// Delete removes an uploaded object. Only keys under the caller's own prefix are accepted.
func (s *uploadService) Delete(ctx context.Context, ownerID, key string) error {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return apperrors.NewValidationError("key", "is required")
	}
	if !strings.HasPrefix(key, uploadPrefix) || strings.Contains(key, "..") {
		return apperrors.NewValidationError("key", "must reference an uploaded image")
	}
	if !strings.HasPrefix(key, ownerPrefix(ownerID)) {
		return apperrors.NewValidationError("key", "must reference one of your uploads")
	}

	if err := s.store.Remove(ctx, key); err != nil {
		return apperrors.Upstream("delete object", err)
	}

	logrus.WithField("key", key).Info("image deleted")
	return nil
}

func ownerPrefix(ownerID string) string {
	return uploadPrefix + ownerID + "/"
}

// sanitizeFilename keeps the base name and replaces characters unsafe in object keys
func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

// resolveContentType prefers the declared type, then the extension, then sniffing
func resolveContentType(name, declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType
		}
	}
	if byExt := mime.TypeByExtension(path.Ext(name)); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return http.DetectContentType(data)
}
