package media

import (
	"context"
	"fmt"
	"io"

	"twitline/pkg/config"
	"twitline/pkg/logger"
)

// Store is the capability twits use for their attachments: upload a file
// and get back a durable URL, or delete the object backing a URL.
type Store interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

func NewStore(cfg *config.Config, log *logger.Logger) (Store, error) {
	switch cfg.MediaBackend {
	case "cloudinary":
		log.Info("Using cloudinary media backend (folder %s)", cfg.CloudinaryFolder)
		return NewCloudinaryStore(cfg)
	case "s3", "":
		log.Info("Using s3 media backend (bucket %s)", cfg.S3BucketName)
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown media backend: %s", cfg.MediaBackend)
	}
}
