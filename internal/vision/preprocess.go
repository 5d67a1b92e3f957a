package vision

import (
	"image"

	"golang.org/x/image/draw"
)

// preprocess converts an image to the CHW float32 layout the detection model
// expects: resized to targetW x targetH, pixel = (pixel - mean) / std.
func preprocess(img image.Image, targetW, targetH int) []float32 {
	const (
		mean = 127.5
		std  = 128.0
	)

	resized := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)

	data := make([]float32, 3*targetH*targetW)
	plane := targetH * targetW

	for y := 0; y < targetH; y++ {
		for x := 0; x < targetW; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			idx := y*targetW + x
			data[0*plane+idx] = (float32(r>>8) - mean) / std
			data[1*plane+idx] = (float32(g>>8) - mean) / std
			data[2*plane+idx] = (float32(b>>8) - mean) / std
		}
	}

	return data
}
