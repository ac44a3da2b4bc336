package pipeline

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		mime    string
		size    int64
		wantErr bool
	}{
		{"image within limit", models.MediaKindImage, "image/jpeg", 5 << 20, false},
		{"image at limit", models.MediaKindImage, "image/png", models.MaxImageUploadBytes, false},
		{"image over limit", models.MediaKindImage, "image/jpeg", models.MaxImageUploadBytes + 1, true},
		{"video within limit", models.MediaKindVideo, "video/mp4", 30 << 20, false},
		{"video over limit", models.MediaKindVideo, "video/mp4", 60 << 20, true},
		{"image mime for video kind", models.MediaKindVideo, "image/jpeg", 1 << 20, true},
		{"video mime for image kind", models.MediaKindImage, "video/mp4", 1 << 20, true},
		{"unknown kind", "audio", "audio/mpeg", 1 << 20, true},
		{"empty file", models.MediaKindImage, "image/jpeg", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.kind, tt.mime, tt.size)
			if tt.wantErr {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMediaKindFromMIME(t *testing.T) {
	assert.Equal(t, models.MediaKindImage, MediaKindFromMIME("image/webp"))
	assert.Equal(t, models.MediaKindVideo, MediaKindFromMIME("video/quicktime"))
	assert.Equal(t, "", MediaKindFromMIME("application/pdf"))
	assert.Equal(t, "", MediaKindFromMIME(""))
}

func TestFrameOffset(t *testing.T) {
	// Midpoint for short clips, capped at five seconds for long ones.
	assert.InDelta(t, 2.0, FrameOffset(4), 0.001)
	assert.InDelta(t, 5.0, FrameOffset(10), 0.001)
	assert.InDelta(t, 5.0, FrameOffset(120), 0.001)
	assert.InDelta(t, 0.0, FrameOffset(0), 0.001)
	assert.InDelta(t, 0.0, FrameOffset(-3), 0.001)
}

func TestMakeThumbnail(t *testing.T) {
	frame := testJPEG(t, 640, 480, color.RGBA{G: 128, A: 255})

	thumb, err := MakeThumbnail(frame)
	require.NoError(t, err)

	img, err := decodeImage(thumb)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestMakeThumbnailKeepsSmallImages(t *testing.T) {
	frame := testJPEG(t, 100, 80, color.White)

	thumb, err := MakeThumbnail(frame)
	require.NoError(t, err)

	img, err := decodeImage(thumb)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestMakeThumbnailRejectsGarbage(t *testing.T) {
	_, err := MakeThumbnail([]byte("definitely not an image"))
	var perr *MediaProcessingError
	assert.ErrorAs(t, err, &perr)
}
