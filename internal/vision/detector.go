package vision

import (
	"fmt"
	"image"
)

// Keypoint is a detected point of interest in source pixel space.
type Keypoint struct {
	X          float64
	Y          float64
	Confidence float64
}

// Detector produces keypoints for a single frame. Implementations are
// opaque to the rest of the pipeline; the autoframing layer only consumes
// keypoints and confidences.
type Detector interface {
	Detect(img image.Image) ([]Keypoint, error)
}

// SaliencyConfig tunes the built-in saliency detector.
type SaliencyConfig struct {
	GridCols   int
	GridRows   int
	SampleStep int     // pixel stride when scanning a cell
	MinEnergy  float64 // cells below this fraction of peak energy emit no keypoint
}

// DefaultSaliencyConfig returns the detector defaults
func DefaultSaliencyConfig() SaliencyConfig {
	return SaliencyConfig{
		GridCols:   12,
		GridRows:   8,
		SampleStep: 4,
		MinEnergy:  0.1,
	}
}

// SaliencyDetector finds high-contrast regions of a frame and emits their
// centers as keypoints. Confidence is the cell's edge energy relative to the
// strongest cell in the frame.
type SaliencyDetector struct {
	config SaliencyConfig
}

// NewSaliencyDetector creates a detector with default configuration
func NewSaliencyDetector() *SaliencyDetector {
	return &SaliencyDetector{config: DefaultSaliencyConfig()}
}

// NewSaliencyDetectorWithConfig creates a detector with custom configuration
func NewSaliencyDetectorWithConfig(config SaliencyConfig) *SaliencyDetector {
	if config.GridCols <= 0 {
		config.GridCols = 12
	}
	if config.GridRows <= 0 {
		config.GridRows = 8
	}
	if config.SampleStep <= 0 {
		config.SampleStep = 4
	}
	return &SaliencyDetector{config: config}
}

// Detect scans the frame on a grid and returns one keypoint per cell whose
// edge energy clears the minimum threshold.
func (d *SaliencyDetector) Detect(img image.Image) ([]Keypoint, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}

	cols, rows := d.config.GridCols, d.config.GridRows
	step := d.config.SampleStep

	cellW := width / cols
	cellH := height / rows
	if cellW < 2 || cellH < 2 {
		return nil, fmt.Errorf("frame %dx%d too small for %dx%d grid", width, height, cols, rows)
	}

	energy := make([]float64, cols*rows)
	maxEnergy := 0.0

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			e := d.cellEnergy(img, bounds.Min.X+cx*cellW, bounds.Min.Y+cy*cellH, cellW, cellH, step)
			energy[cy*cols+cx] = e
			if e > maxEnergy {
				maxEnergy = e
			}
		}
	}

	if maxEnergy == 0 {
		// Flat frame, nothing to track
		return nil, nil
	}

	var points []Keypoint
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			score := energy[cy*cols+cx] / maxEnergy
			if score < d.config.MinEnergy {
				continue
			}
			points = append(points, Keypoint{
				X:          float64(bounds.Min.X + cx*cellW + cellW/2),
				Y:          float64(bounds.Min.Y + cy*cellH + cellH/2),
				Confidence: score,
			})
		}
	}

	return points, nil
}

// cellEnergy accumulates horizontal and vertical luma gradients over a
// sampled sub-grid of the cell.
func (d *SaliencyDetector) cellEnergy(img image.Image, x0, y0, w, h, step int) float64 {
	var total float64
	count := 0

	for y := y0; y < y0+h-step; y += step {
		for x := x0; x < x0+w-step; x += step {
			l := luma(img, x, y)
			lx := luma(img, x+step, y)
			ly := luma(img, x, y+step)

			dx := l - lx
			if dx < 0 {
				dx = -dx
			}
			dy := l - ly
			if dy < 0 {
				dy = -dy
			}

			total += dx + dy
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func luma(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	// Rec. 601 weights on 16-bit channel values
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
}
