package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

const (
	// Frame selection policy for videos: roughly the midpoint, capped at 5
	// seconds in to avoid intro artifacts on long clips. If duration probing
	// fails, fall back to a fixed 3-second offset.
	maxFrameOffsetSec      = 5.0
	fallbackFrameOffsetSec = 3.0

	thumbnailWidth = 320
)

// ValidateUpload checks the declared size and MIME type against the
// kind-specific ceilings before any asset is created.
func ValidateUpload(kind, declaredMIME string, declaredSize int64) error {
	switch kind {
	case models.MediaKindImage:
		if !strings.HasPrefix(declaredMIME, "image/") {
			return &ValidationError{Field: "mime_type", Reason: fmt.Sprintf("expected image/*, got %q", declaredMIME)}
		}
		if declaredSize > models.MaxImageUploadBytes {
			return &ValidationError{Field: "file_size", Reason: fmt.Sprintf("image exceeds %dMB limit", models.MaxImageUploadBytes>>20)}
		}
	case models.MediaKindVideo:
		if !strings.HasPrefix(declaredMIME, "video/") {
			return &ValidationError{Field: "mime_type", Reason: fmt.Sprintf("expected video/*, got %q", declaredMIME)}
		}
		if declaredSize > models.MaxVideoUploadBytes {
			return &ValidationError{Field: "file_size", Reason: fmt.Sprintf("video exceeds %dMB limit", models.MaxVideoUploadBytes>>20)}
		}
	default:
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown media kind %q", kind)}
	}
	if declaredSize <= 0 {
		return &ValidationError{Field: "file_size", Reason: "file is empty"}
	}
	return nil
}

// MediaKindFromMIME maps a declared MIME type to a media kind, or "" when the
// family is neither image nor video.
func MediaKindFromMIME(declaredMIME string) string {
	switch {
	case strings.HasPrefix(declaredMIME, "image/"):
		return models.MediaKindImage
	case strings.HasPrefix(declaredMIME, "video/"):
		return models.MediaKindVideo
	default:
		return ""
	}
}

// FrameOffset returns the timestamp at which to grab the representative frame
// for a video of the given duration: min(duration/2, 5s).
func FrameOffset(durationSec float64) float64 {
	offset := durationSec / 2
	if offset > maxFrameOffsetSec {
		offset = maxFrameOffsetSec
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// FrameExtractor extracts still frames from uploaded videos by shelling out
// to ffmpeg/ffprobe.
type FrameExtractor struct {
	FFmpegBinary  string
	FFprobeBinary string
}

// ProbeDuration returns the container duration of source in seconds.
func (e *FrameExtractor) ProbeDuration(ctx context.Context, source string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		source,
	}
	out, err := exec.CommandContext(ctx, e.FFprobeBinary, args...).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: unparseable duration %q", strings.TrimSpace(string(out)))
	}
	return duration, nil
}

// ExtractFrame grabs a single representative frame from source and returns
// the encoded JPEG bytes. Probe failures degrade to the fixed fallback
// offset; extraction failures are MediaProcessingError.
func (e *FrameExtractor) ExtractFrame(ctx context.Context, source, workDir string) ([]byte, error) {
	offset := fallbackFrameOffsetSec
	if duration, err := e.ProbeDuration(ctx, source); err == nil {
		offset = FrameOffset(duration)
	}

	dest := workDir + string(os.PathSeparator) + "frame.jpg"
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.2f", offset),
		"-i", source,
		"-frames:v", "1",
		"-q:v", "2",
		dest,
	}
	cmd := exec.CommandContext(ctx, e.FFmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, &MediaProcessingError{Stage: "frame extraction", Err: fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))}
	}

	frame, err := os.ReadFile(dest)
	if err != nil {
		return nil, &MediaProcessingError{Stage: "frame extraction", Err: err}
	}
	return frame, nil
}

// MakeThumbnail derives a fixed-width, aspect-preserving JPEG thumbnail from
// the frame bytes.
func MakeThumbnail(frame []byte) ([]byte, error) {
	img, err := decodeImage(frame)
	if err != nil {
		return nil, &MediaProcessingError{Stage: "thumbnail", Err: err}
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &MediaProcessingError{Stage: "thumbnail", Err: fmt.Errorf("empty image")}
	}

	width := thumbnailWidth
	if b.Dx() < width {
		width = b.Dx()
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	thumb, err := encodeJPEG(resizeNearest(img, width, height))
	if err != nil {
		return nil, &MediaProcessingError{Stage: "thumbnail", Err: err}
	}
	return thumb, nil
}
