package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// MediaObject is the result of storing a file in the external media store.
type MediaObject struct {
	MediaID         string
	URL             string
	DurationSeconds int
}

// MediaStore is the narrow interface the core consumes for external media.
// Delete failures during a cascade are logged and do not block record
// deletion.
type MediaStore interface {
	Store(ctx context.Context, localPath string, kind MediaKind) (*MediaObject, error)
	Delete(ctx context.Context, mediaID string, kind MediaKind) error
}

// StorageProvider abstracts the object storage backend.
type StorageProvider interface {
	UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalStorageProvider stores objects on the local filesystem.
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	if localPath == dst {
		return p.GetURL(filename), nil
	}

	srcFile, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer dstFile.Close()

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filename))
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

// MinioStorageProvider stores objects in a MinIO bucket.
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error) {
	_, err := p.Client.FPutObject(ctx, p.Config.MinioBucket, filename, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return "/" + p.Config.MinioBucket + "/" + filename
}

// MediaService implements MediaStore on top of a StorageProvider. Object
// keys are uuid-based and double as media ids.
type MediaService struct {
	Provider StorageProvider
}

func NewMediaService(cfg *config.Config) (*MediaService, error) {
	switch cfg.Storage.Type {
	case "minio":
		provider, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			return nil, err
		}
		return &MediaService{Provider: provider}, nil
	default:
		return &MediaService{Provider: &LocalStorageProvider{Config: &cfg.Storage}}, nil
	}
}

func (s *MediaService) Store(ctx context.Context, localPath string, kind MediaKind) (*MediaObject, error) {
	mediaID := fmt.Sprintf("%s/%s%s", kindPrefix(kind), uuid.New().String(), filepath.Ext(localPath))

	duration := 0
	if kind == MediaVideo {
		if info, err := util.ProbeVideo(localPath); err != nil {
			// Unknown duration is stored as 0, not an upload failure.
			logger.Log.Warn("video probe failed, duration defaults to 0",
				zap.String("path", localPath), zap.Error(err))
		} else {
			duration = int(info.Duration + 0.5)
		}
	}

	url, err := s.Provider.UploadFile(ctx, mediaID, localPath, contentTypeFor(kind))
	if err != nil {
		logger.Log.Error("media upload failed",
			zap.String("mediaId", mediaID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrMediaUploadFailed, err)
	}

	return &MediaObject{
		MediaID:         mediaID,
		URL:             url,
		DurationSeconds: duration,
	}, nil
}

func (s *MediaService) Delete(ctx context.Context, mediaID string, kind MediaKind) error {
	return s.Provider.Delete(ctx, mediaID)
}

func kindPrefix(kind MediaKind) string {
	switch kind {
	case MediaVideo:
		return "videos"
	case MediaDocument:
		return "documents"
	default:
		return "images"
	}
}

func contentTypeFor(kind MediaKind) string {
	switch kind {
	case MediaVideo:
		return "video/mp4"
	case MediaDocument:
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}
