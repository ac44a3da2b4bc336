package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	data, err := encodeJPEG(img)
	require.NoError(t, err)
	return data
}

func fineRec(name string, x, y, w, h float64) FineRecommendation {
	return FineRecommendation{
		ProductName: name,
		Position:    Point{X: x, Y: y},
		Size:        BoxSize{Width: w, Height: h},
	}
}

func TestCompositeLayersKnownProducts(t *testing.T) {
	frame := testJPEG(t, 200, 100, color.White)
	product := testJPEG(t, 40, 40, color.RGBA{R: 255, A: 255})

	fine := []FineRecommendation{
		fineRec("Sofa", 50, 50, 30, 40),
		fineRec("Lamp", 80, 30, 10, 20),
	}
	images := map[string]string{
		"Sofa": "products/sofa.jpg",
		"Lamp": "products/lamp.jpg",
	}
	fetch := func(ctx context.Context, ref string) ([]byte, error) {
		return product, nil
	}

	outcome := Composite(context.Background(), frame, fine, images, fetch)
	require.True(t, outcome.OK, outcome.Reason)
	assert.NotEmpty(t, outcome.Result.AfterImage)
	require.Len(t, outcome.Result.ProductPositions, 2)

	// 30% x 40% of a 200x100 frame centered at (50%, 50%).
	sofa := outcome.Result.ProductPositions[0]
	assert.Equal(t, "Sofa", sofa.ProductName)
	assert.Equal(t, 60, sofa.WidthPixels)
	assert.Equal(t, 40, sofa.HeightPixels)
	assert.Equal(t, 100-30, sofa.XPixels)
	assert.Equal(t, 50-20, sofa.YPixels)
}

func TestCompositeSkipsProductsWithoutImages(t *testing.T) {
	frame := testJPEG(t, 100, 100, color.White)
	product := testJPEG(t, 10, 10, color.Black)

	fine := []FineRecommendation{
		fineRec("Sofa", 30, 30, 20, 20),
		fineRec("Virtual Rug", 60, 60, 20, 20),
		fineRec("Lamp", 80, 20, 10, 10),
	}
	// Virtual products carry no image reference and must be skipped, not fatal.
	images := map[string]string{
		"Sofa": "products/sofa.jpg",
		"Lamp": "products/lamp.jpg",
	}
	fetch := func(ctx context.Context, ref string) ([]byte, error) {
		return product, nil
	}

	outcome := Composite(context.Background(), frame, fine, images, fetch)
	require.True(t, outcome.OK, outcome.Reason)
	require.Len(t, outcome.Result.ProductPositions, 2)
	assert.Equal(t, "Sofa", outcome.Result.ProductPositions[0].ProductName)
	assert.Equal(t, "Lamp", outcome.Result.ProductPositions[1].ProductName)
}

func TestCompositeUnavailableOnBadFrame(t *testing.T) {
	outcome := Composite(context.Background(), []byte("not an image"), nil, nil, nil)
	assert.False(t, outcome.OK)
	assert.NotEmpty(t, outcome.Reason)
}

func TestCompositeUnavailableOnFetchFailure(t *testing.T) {
	frame := testJPEG(t, 100, 100, color.White)
	fine := []FineRecommendation{fineRec("Sofa", 50, 50, 20, 20)}
	images := map[string]string{"Sofa": "products/sofa.jpg"}
	fetch := func(ctx context.Context, ref string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}

	outcome := Composite(context.Background(), frame, fine, images, fetch)
	assert.False(t, outcome.OK)
	assert.Contains(t, outcome.Reason, "Sofa")
}

func TestCompositeUnavailableOnBadProductImage(t *testing.T) {
	frame := testJPEG(t, 100, 100, color.White)
	fine := []FineRecommendation{fineRec("Sofa", 50, 50, 20, 20)}
	images := map[string]string{"Sofa": "products/sofa.jpg"}
	fetch := func(ctx context.Context, ref string) ([]byte, error) {
		return []byte("<html>404</html>"), nil
	}

	outcome := Composite(context.Background(), frame, fine, images, fetch)
	assert.False(t, outcome.OK)
}

func TestCompositeIgnoresZeroSizedBoxes(t *testing.T) {
	frame := testJPEG(t, 100, 100, color.White)
	fine := []FineRecommendation{fineRec("Sofa", 50, 50, 0, 0)}
	fetch := func(ctx context.Context, ref string) ([]byte, error) {
		return nil, fmt.Errorf("must not be called")
	}

	outcome := Composite(context.Background(), frame, fine, map[string]string{"Sofa": "x"}, fetch)
	require.True(t, outcome.OK, outcome.Reason)
	assert.Empty(t, outcome.Result.ProductPositions)
}

func TestContainResizePreservesAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	layer := containResize(src, 40, 40)
	b := layer.Bounds()
	assert.Equal(t, 40, b.Dx())
	assert.Equal(t, 40, b.Dy())
}
