package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"twitline/pkg/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg *config.Config) (*CloudinaryStore, error) {
	if cfg.CloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL is required for the cloudinary backend")
	}

	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}

	return &CloudinaryStore{cld: cld, folder: cfg.CloudinaryFolder}, nil
}

func (c *CloudinaryStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	params := uploader.UploadParams{
		Folder:   c.folder,
		PublicID: strings.TrimSuffix(key, path.Ext(key)),
	}

	if IsVideo(contentType) {
		params.ResourceType = "video"
		// Cap clip length provider-side rather than inspecting the payload.
		params.Transformation = fmt.Sprintf("du_%d", MaxVideoDuration)
	} else {
		params.ResourceType = "auto"
	}

	result, err := c.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload file to cloudinary: %w", err)
	}
	return result.SecureURL, nil
}

func (c *CloudinaryStore) Delete(ctx context.Context, fileURL string) error {
	publicID, resourceType := c.parseURL(fileURL)
	if publicID == "" {
		return fmt.Errorf("cannot extract public id from url %q", fileURL)
	}

	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from cloudinary: %w", err)
	}
	return nil
}

// parseURL pulls the public id and resource type out of a delivery URL like
// https://res.cloudinary.com/demo/image/upload/v1234/twitline/abc.jpg
func (c *CloudinaryStore) parseURL(fileURL string) (string, string) {
	resourceType := "image"
	if strings.Contains(fileURL, "/video/upload/") {
		resourceType = "video"
	}

	parts := strings.SplitN(fileURL, "/upload/", 2)
	if len(parts) != 2 {
		return "", resourceType
	}

	publicID := parts[1]
	// Drop the version segment if present.
	if segs := strings.SplitN(publicID, "/", 2); len(segs) == 2 && strings.HasPrefix(segs[0], "v") {
		publicID = segs[1]
	}
	return strings.TrimSuffix(publicID, path.Ext(publicID)), resourceType
}
