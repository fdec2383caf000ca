package autoframe

import (
	"image"

	"github.com/rs/zerolog"

	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/vision"
)

// Locator reduces a frame's detected keypoints to a single subject position.
type Locator struct {
	logger        zerolog.Logger
	detector      vision.Detector
	minConfidence float64
}

func NewLocator(logger zerolog.Logger, detector vision.Detector, minConfidence float64) *Locator {
	return &Locator{
		logger:        logger.With().Str("component", "locator").Logger(),
		detector:      detector,
		minConfidence: minConfidence,
	}
}

// Locate returns the centroid of all keypoints above the confidence
// threshold. Detection failures and empty frames are per-frame conditions,
// not errors: the caller holds the last known position instead.
func (l *Locator) Locate(img image.Image) (Point, bool) {
	keypoints, err := l.detector.Detect(img)
	if err != nil {
		l.logger.Debug().Err(err).Msg("keypoint detection failed, holding position")
		return Point{}, false
	}

	var sumX, sumY float64
	count := 0
	for _, kp := range keypoints {
		if kp.Confidence <= l.minConfidence {
			continue
		}
		sumX += kp.X
		sumY += kp.Y
		count++
	}
	if count == 0 {
		return Point{}, false
	}

	return Point{X: sumX / float64(count), Y: sumY / float64(count)}, true
}
