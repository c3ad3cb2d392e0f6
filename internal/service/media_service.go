package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/buildlore/heritage-backend/internal/common"
	pkglogger "github.com/buildlore/heritage-backend/pkg/logger"
	"github.com/buildlore/heritage-backend/pkg/storage"
	"github.com/google/uuid"
)

// MediaStore is the external blob store holding article images
type MediaStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error)
	Delete(ctx context.Context, key string) error
}

// MediaService validates uploads and releases media that articles and buildings no longer reference
type MediaService struct {
	store        MediaStore
	maxSize      int64 // max image size in bytes
	maxModelSize int64 // max 3D model size in bytes
}

// NewMediaService creates a new MediaService. store may be nil, in which case
// uploads fail and releases are skipped.
func NewMediaService(store MediaStore) *MediaService {
	return &MediaService{
		store:        store,
		maxSize:      10 * 1024 * 1024, // 10MB
		maxModelSize: 50 * 1024 * 1024, // 50MB
	}
}

// modelContentTypes are the accepted 3D model formats
var modelContentTypes = map[string]string{
	".glb":  "model/gltf-binary",
	".gltf": "model/gltf+json",
	".obj":  "model/obj",
	".stl":  "model/stl",
	".fbx":  "application/octet-stream",
	".usdz": "model/vnd.usdz+zip",
}

// MediaUpload is an incoming file
type MediaUpload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// UploadImage checks the file is an image and stores it under prefix
func (s *MediaService) UploadImage(ctx context.Context, prefix string, file *MediaUpload) (*storage.UploadResult, error) {
	if s == nil || s.store == nil {
		return nil, common.ErrMediaUnavailable
	}
	if file == nil || file.Body == nil {
		return nil, common.Validation("file is required")
	}
	if file.Size > s.maxSize {
		return nil, common.Validation("file too large (max %dMB)", s.maxSize/(1024*1024))
	}

	ext := strings.ToLower(path.Ext(file.Filename))
	if !isImageExt(ext) {
		return nil, common.Validation("unsupported image format: %s", ext)
	}

	data, err := io.ReadAll(io.LimitReader(file.Body, s.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxSize {
		return nil, common.Validation("file too large (max %dMB)", s.maxSize/(1024*1024))
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, common.Validation("file content is not an image")
	}

	key := storage.GenerateKey(prefix, uuid.New().String()[:8]+ext)
	return s.store.Upload(ctx, key, bytes.NewReader(data), contentType, int64(len(data)))
}

// UploadModel stores a 3D model file under prefix. Formats are recognised by extension.
func (s *MediaService) UploadModel(ctx context.Context, prefix string, file *MediaUpload) (*storage.UploadResult, error) {
	if s == nil || s.store == nil {
		return nil, common.ErrMediaUnavailable
	}
	if file == nil || file.Body == nil {
		return nil, common.Validation("file is required")
	}
	if file.Size > s.maxModelSize {
		return nil, common.Validation("model file too large (max %dMB)", s.maxModelSize/(1024*1024))
	}

	ext := strings.ToLower(path.Ext(file.Filename))
	contentType, ok := modelContentTypes[ext]
	if !ok {
		return nil, common.Validation("unsupported model format: %s", ext)
	}

	data, err := io.ReadAll(io.LimitReader(file.Body, s.maxModelSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, common.Validation("model file is empty")
	}
	if int64(len(data)) > s.maxModelSize {
		return nil, common.Validation("model file too large (max %dMB)", s.maxModelSize/(1024*1024))
	}

	key := storage.GenerateKey(prefix, uuid.New().String()[:8]+ext)
	return s.store.Upload(ctx, key, bytes.NewReader(data), contentType, int64(len(data)))
}

// Release deletes media keys in the background of a completed request.
// Failures are logged; the owning row is already gone.
func (s *MediaService) Release(ctx context.Context, keys []string) {
	if s == nil || s.store == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("failed to release media")
		}
	}
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
