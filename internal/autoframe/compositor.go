package autoframe

import (
	"image"

	"github.com/disintegration/imaging"
)

// Compositor crops the source frame to the controller's rectangle and
// resamples it to the output size.
type Compositor struct {
	outWidth  int
	outHeight int
}

func NewCompositor(outWidth, outHeight int) *Compositor {
	return &Compositor{outWidth: outWidth, outHeight: outHeight}
}

// Compose extracts rect from the frame and scales it to the output
// dimensions with Lanczos resampling.
func (c *Compositor) Compose(frame image.Image, rect Rect) *image.RGBA {
	cropped := imaging.Crop(frame, image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height))
	resized := imaging.Resize(cropped, c.outWidth, c.outHeight, imaging.Lanczos)

	// Video frames are fully opaque, so the NRGBA pixel buffer is valid
	// RGBA byte-for-byte and can be rewrapped without a copy.
	return &image.RGBA{
		Pix:    resized.Pix,
		Stride: resized.Stride,
		Rect:   resized.Rect,
	}
}
