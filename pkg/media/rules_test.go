package media

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testFile(contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "file",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr error
	}{
		{"jpeg ok", testFile("image/jpeg", 1024), nil},
		{"png ok", testFile("image/png", 1024), nil},
		{"gif ok", testFile("image/gif", 1024), nil},
		{"mp4 ok", testFile("video/mp4", 1024), nil},
		{"quicktime ok", testFile("video/quicktime", 1024), nil},
		{"empty file", testFile("image/jpeg", 0), ErrEmptyFile},
		{"webp rejected", testFile("image/webp", 1024), ErrUnsupportedType},
		{"pdf rejected", testFile("application/pdf", 1024), ErrUnsupportedType},
		{"video at limit", testFile("video/mp4", MaxVideoSize), nil},
		{"video over limit", testFile("video/mp4", MaxVideoSize + 1), ErrVideoTooLarge},
		{"big image ok", testFile("image/jpeg", MaxVideoSize + 1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAttachments(t *testing.T) {
	image := func() *multipart.FileHeader { return testFile("image/jpeg", 1024) }
	video := testFile("video/mp4", 1024)

	t.Run("three images and a video", func(t *testing.T) {
		images := []*multipart.FileHeader{image(), image(), image()}
		assert.NoError(t, ValidateAttachments(images, video))
	})

	t.Run("no attachments", func(t *testing.T) {
		assert.NoError(t, ValidateAttachments(nil, nil))
	})

	t.Run("four images", func(t *testing.T) {
		images := []*multipart.FileHeader{image(), image(), image(), image()}
		assert.ErrorIs(t, ValidateAttachments(images, nil), ErrTooManyImages)
	})

	t.Run("video in image slot", func(t *testing.T) {
		images := []*multipart.FileHeader{testFile("video/mp4", 1024)}
		assert.ErrorIs(t, ValidateAttachments(images, nil), ErrUnsupportedType)
	})

	t.Run("image in video slot", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAttachments(nil, testFile("image/png", 1024)), ErrUnsupportedType)
	})

	t.Run("oversized video", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAttachments(nil, testFile("video/mp4", MaxVideoSize+1)), ErrVideoTooLarge)
	})
}

func TestValidateBatch(t *testing.T) {
	t.Run("mixed batch ok", func(t *testing.T) {
		files := []*multipart.FileHeader{
			testFile("image/jpeg", 1024),
			testFile("image/png", 1024),
			testFile("video/mp4", 1024),
		}
		assert.NoError(t, ValidateBatch(files))
	})

	t.Run("too many images", func(t *testing.T) {
		files := []*multipart.FileHeader{
			testFile("image/jpeg", 1024),
			testFile("image/jpeg", 1024),
			testFile("image/jpeg", 1024),
			testFile("image/jpeg", 1024),
		}
		assert.ErrorIs(t, ValidateBatch(files), ErrTooManyImages)
	})

	t.Run("two videos", func(t *testing.T) {
		files := []*multipart.FileHeader{
			testFile("video/mp4", 1024),
			testFile("video/quicktime", 1024),
		}
		assert.ErrorIs(t, ValidateBatch(files), ErrTooManyVideos)
	})

	t.Run("unsupported type", func(t *testing.T) {
		files := []*multipart.FileHeader{testFile("text/plain", 1024)}
		assert.ErrorIs(t, ValidateBatch(files), ErrUnsupportedType)
	})

	t.Run("empty batch", func(t *testing.T) {
		assert.NoError(t, ValidateBatch(nil))
	})
}

func TestContentTypePredicates(t *testing.T) {
	assert.True(t, IsImage("image/jpeg"))
	assert.True(t, IsImage("image/gif"))
	assert.False(t, IsImage("image/webp"))
	assert.True(t, IsVideo("video/mp4"))
	assert.True(t, IsVideo("video/quicktime"))
	assert.False(t, IsVideo("video/webm"))
	assert.False(t, IsImage("video/mp4"))
	assert.False(t, IsVideo("image/png"))
}
