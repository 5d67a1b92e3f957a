package cut

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/your-org/facetag/internal/models"
)

const jpegQuality = 85

// CropJPEG cuts the given rectangle out of an encoded image and returns the
// crop as JPEG bytes. A rectangle that leaves the image bounds is an explicit
// error, never a silent clamp.
func CropJPEG(data []byte, rect models.Rectangle) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if err := validateRect(rect, bounds.Dx(), bounds.Dy()); err != nil {
		return nil, err
	}

	src := image.Rect(
		bounds.Min.X+rect.X(),
		bounds.Min.Y+rect.Y(),
		bounds.Min.X+rect.X()+rect.Width(),
		bounds.Min.Y+rect.Y()+rect.Height(),
	)

	crop := image.NewRGBA(image.Rect(0, 0, rect.Width(), rect.Height()))
	draw.Copy(crop, image.Point{}, img, src, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, crop, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}

func validateRect(rect models.Rectangle, imgW, imgH int) error {
	if rect.X() < 0 || rect.Y() < 0 || rect.Width() <= 0 || rect.Height() <= 0 {
		return fmt.Errorf("invalid rectangle %v", rect)
	}
	if rect.X()+rect.Width() > imgW || rect.Y()+rect.Height() > imgH {
		return fmt.Errorf("rectangle %v exceeds image bounds %dx%d", rect, imgW, imgH)
	}
	return nil
}
