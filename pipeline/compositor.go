package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

// Fallback frame dimensions when the room image reports no usable bounds.
const (
	defaultFrameWidth  = 1280
	defaultFrameHeight = 720
)

// CompositeResult is the synthesized "after" image plus the pixel boxes each
// product was layered into. Ephemeral: produced fresh per run, never cached.
type CompositeResult struct {
	AfterImage       []byte
	ProductPositions []models.PixelPosition
}

// CompositeOutcome makes the best-effort contract explicit: callers branch on
// OK instead of recovering from a panic or error. An unavailable composite is
// never fatal to the pipeline.
type CompositeOutcome struct {
	Result CompositeResult
	OK     bool
	Reason string
}

func unavailable(format string, args ...interface{}) CompositeOutcome {
	return CompositeOutcome{OK: false, Reason: fmt.Sprintf(format, args...)}
}

// ImageFetcher retrieves product image bytes by reference (remote URL or
// storage key).
type ImageFetcher func(ctx context.Context, ref string) ([]byte, error)

// Composite layers product images onto the room frame at the analyzer's
// normalized bounding boxes. Items with no entry in productImages are logged
// and skipped; fetch or decode failures surface as an unavailable outcome.
func Composite(ctx context.Context, frame []byte, fine []FineRecommendation, productImages map[string]string, fetch ImageFetcher) CompositeOutcome {
	base, err := decodeImage(frame)
	if err != nil {
		return unavailable("decode room frame: %v", err)
	}

	bounds := base.Bounds()
	frameW := bounds.Dx()
	frameH := bounds.Dy()
	if frameW <= 0 || frameH <= 0 {
		frameW = defaultFrameWidth
		frameH = defaultFrameHeight
		bounds = image.Rect(0, 0, frameW, frameH)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	draw.Draw(canvas, canvas.Bounds(), base, bounds.Min, draw.Src)

	var positions []models.PixelPosition
	for _, rec := range fine {
		if rec.Size.Width <= 0 || rec.Size.Height <= 0 {
			continue
		}

		ref, ok := productImages[rec.ProductName]
		if !ok || ref == "" {
			log.Printf("compositor: no product image for %q, skipping", rec.ProductName)
			continue
		}

		data, err := fetch(ctx, ref)
		if err != nil {
			return unavailable("fetch product image %q: %v", rec.ProductName, err)
		}
		productImg, err := decodeImage(data)
		if err != nil {
			return unavailable("decode product image %q: %v", rec.ProductName, err)
		}

		boxW := int(rec.Size.Width / 100 * float64(frameW))
		boxH := int(rec.Size.Height / 100 * float64(frameH))
		if boxW < 1 || boxH < 1 {
			continue
		}

		// Position is the box center; convert to a top-left offset.
		left := int(rec.Position.X/100*float64(frameW)) - boxW/2
		top := int(rec.Position.Y/100*float64(frameH)) - boxH/2

		layer := containResize(productImg, boxW, boxH)
		target := image.Rect(left, top, left+boxW, top+boxH)
		draw.Draw(canvas, target, layer, image.Point{}, draw.Over)

		positions = append(positions, models.PixelPosition{
			ProductName:  rec.ProductName,
			XPixels:      left,
			YPixels:      top,
			WidthPixels:  boxW,
			HeightPixels: boxH,
		})
	}

	after, err := encodeJPEG(canvas)
	if err != nil {
		return unavailable("encode composite: %v", err)
	}

	return CompositeOutcome{
		Result: CompositeResult{AfterImage: after, ProductPositions: positions},
		OK:     true,
	}
}

// containResize fits src into a boxW x boxH layer preserving aspect ratio,
// centered on transparent padding. Never crops, never distorts.
func containResize(src image.Image, boxW, boxH int) *image.RGBA {
	layer := image.NewRGBA(image.Rect(0, 0, boxW, boxH))

	b := src.Bounds()
	srcW := b.Dx()
	srcH := b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return layer
	}

	scale := float64(boxW) / float64(srcW)
	if s := float64(boxH) / float64(srcH); s < scale {
		scale = s
	}
	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	scaled := resizeNearest(src, w, h)
	offset := image.Pt((boxW-w)/2, (boxH-h)/2)
	draw.Draw(layer, image.Rect(offset.X, offset.Y, offset.X+w, offset.Y+h), scaled, image.Point{}, draw.Src)
	return layer
}
