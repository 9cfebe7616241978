package media

import (
	"errors"
	"fmt"
	"mime/multipart"
)

const (
	MaxImages        = 3
	MaxVideoSize     = 50 * 1024 * 1024 // 50 MiB
	MaxVideoDuration = 30               // seconds, enforced by the provider's transform options
)

var (
	ErrTooManyImages   = errors.New("maximum of 3 images allowed")
	ErrTooManyVideos   = errors.New("only one video allowed per twit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrVideoTooLarge   = errors.New("video size exceeds maximum limit of 50MB")
	ErrEmptyFile       = errors.New("file is empty")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
}

func IsImage(contentType string) bool {
	return allowedImageTypes[contentType]
}

func IsVideo(contentType string) bool {
	return allowedVideoTypes[contentType]
}

// ValidateAttachments checks a request's attachment set before anything is
// uploaded. The whole batch is rejected on the first violation.
func ValidateAttachments(images []*multipart.FileHeader, video *multipart.FileHeader) error {
	if len(images) > MaxImages {
		return ErrTooManyImages
	}
	for _, f := range images {
		if err := ValidateFile(f); err != nil {
			return err
		}
		if !IsImage(ContentType(f)) {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, ContentType(f))
		}
	}
	if video != nil {
		if err := ValidateFile(video); err != nil {
			return err
		}
		if !IsVideo(ContentType(video)) {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, ContentType(video))
		}
	}
	return nil
}

// ValidateBatch checks a mixed batch of files, as accepted by the upload
// endpoint, against the same per-request limits.
func ValidateBatch(files []*multipart.FileHeader) error {
	imageCount := 0
	hasVideo := false

	for _, f := range files {
		if err := ValidateFile(f); err != nil {
			return err
		}

		ct := ContentType(f)
		switch {
		case IsImage(ct):
			imageCount++
			if imageCount > MaxImages {
				return ErrTooManyImages
			}
		case IsVideo(ct):
			if hasVideo {
				return ErrTooManyVideos
			}
			hasVideo = true
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
		}
	}
	return nil
}

func ValidateFile(f *multipart.FileHeader) error {
	if f.Size == 0 {
		return ErrEmptyFile
	}

	ct := ContentType(f)
	if !IsImage(ct) && !IsVideo(ct) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}

	if IsVideo(ct) && f.Size > MaxVideoSize {
		return ErrVideoTooLarge
	}
	return nil
}

func ContentType(f *multipart.FileHeader) string {
	return f.Header.Get("Content-Type")
}
