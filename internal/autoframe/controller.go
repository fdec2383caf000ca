package autoframe

import (
	"fmt"
	"math/rand"
)

// ZoomPhase is the zoom state machine phase.
type ZoomPhase int

const (
	ZoomNeutral ZoomPhase = iota
	ZoomingIn
	ZoomingOut
)

func (p ZoomPhase) String() string {
	switch p {
	case ZoomNeutral:
		return "neutral"
	case ZoomingIn:
		return "zooming_in"
	case ZoomingOut:
		return "zooming_out"
	default:
		return "unknown"
	}
}

// Zoom pacing, in frames and zoom-factor deltas.
const (
	minZoomDwell    = 120
	maxZoomDwell    = 300
	minZoomFrames   = 150
	maxZoomFrames   = 210
	zoomInDeltaMin  = 0.05
	zoomInDeltaMax  = 0.08
	zoomOutDeltaMin = 0.03
	zoomOutDeltaMax = 0.05
)

// Point is a subject position in source pixel space.
type Point struct {
	X float64
	Y float64
}

// State carries the per-frame camera state. It is a plain value: Advance
// consumes one state and returns the next, so transitions can be unit
// tested without frames.
type State struct {
	PosX, PosY       float64 // smoothed crop origin
	TargetX, TargetY float64 // last known target origin
	ZoomFactor       float64
	Phase            ZoomPhase
	ZoomStep         float64
	RemainingFrames  int
	FramesSinceZoom  int
}

// Rect is a crop rectangle in source pixel space.
type Rect struct {
	X, Y          int
	Width, Height int
}

// ControllerConfig describes source and output geometry plus smoothing and
// zoom limits.
type ControllerConfig struct {
	InputWidth   int
	InputHeight  int
	OutputWidth  int
	OutputHeight int
	Smoothing    float64
	MinZoom      float64
	MaxZoom      float64
}

// Controller computes a smoothly moving, occasionally zooming crop window
// that follows the subject. Randomized zoom pacing comes from the injected
// rand source, so transitions are reproducible under a fixed seed.
type Controller struct {
	cfg        ControllerConfig
	rng        *rand.Rand
	cropWidth  int
	cropHeight int
}

// NewController validates geometry and derives the base crop box. A zero or
// inconsistent source dimension is a precondition violation: the video
// cannot be framed at all.
func NewController(cfg ControllerConfig, rng *rand.Rand) (*Controller, error) {
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		return nil, fmt.Errorf("invalid source dimensions %dx%d", cfg.InputWidth, cfg.InputHeight)
	}
	if cfg.OutputWidth <= 0 || cfg.OutputHeight <= 0 {
		return nil, fmt.Errorf("invalid output dimensions %dx%d", cfg.OutputWidth, cfg.OutputHeight)
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		return nil, fmt.Errorf("smoothing factor %f out of range (0, 1]", cfg.Smoothing)
	}
	if cfg.MinZoom <= 0 || cfg.MaxZoom < cfg.MinZoom {
		return nil, fmt.Errorf("zoom range [%f, %f] is invalid", cfg.MinZoom, cfg.MaxZoom)
	}
	if rng == nil {
		return nil, fmt.Errorf("rand source is required")
	}

	cropHeight := cfg.InputHeight
	cropWidth := int(float64(cfg.InputHeight) * float64(cfg.OutputWidth) / float64(cfg.OutputHeight))
	if cropWidth > cfg.InputWidth {
		// Source is too narrow for the target aspect; use the full width and
		// accept a best-effort aspect ratio.
		cropWidth = cfg.InputWidth
	}
	if cropWidth <= 0 {
		return nil, fmt.Errorf("derived crop width is zero for source %dx%d", cfg.InputWidth, cfg.InputHeight)
	}

	return &Controller{
		cfg:        cfg,
		rng:        rng,
		cropWidth:  cropWidth,
		cropHeight: cropHeight,
	}, nil
}

// InitialState centers the crop on the source with no zoom in progress.
func (c *Controller) InitialState() State {
	x := float64(c.cfg.InputWidth-c.cropWidth) / 2
	y := float64(c.cfg.InputHeight-c.cropHeight) / 2
	return State{
		PosX:       x,
		PosY:       y,
		TargetX:    x,
		TargetY:    y,
		ZoomFactor: c.cfg.MinZoom,
		Phase:      ZoomNeutral,
	}
}

// Advance runs one frame transition. When no subject point is available the
// previous target is held unchanged; the smoothed position keeps easing
// toward it.
func (c *Controller) Advance(s State, pt Point, found bool) (State, Rect) {
	if found {
		s.TargetX = clamp(pt.X-float64(c.cropWidth)/2, 0, float64(c.cfg.InputWidth-c.cropWidth))
		s.TargetY = clamp(pt.Y-float64(c.cropHeight)/2, 0, float64(c.cfg.InputHeight-c.cropHeight))
	}

	a := c.cfg.Smoothing
	s.PosX = s.PosX*(1-a) + s.TargetX*a
	s.PosY = s.PosY*(1-a) + s.TargetY*a

	s = c.advanceZoom(s)

	return s, c.deriveRect(s)
}

func (c *Controller) advanceZoom(s State) State {
	switch s.Phase {
	case ZoomNeutral:
		s.FramesSinceZoom++
		if s.FramesSinceZoom > c.randRange(minZoomDwell, maxZoomDwell) {
			duration := c.randRange(minZoomFrames, maxZoomFrames)
			var delta float64
			if c.rng.Intn(2) == 0 {
				s.Phase = ZoomingIn
				delta = zoomInDeltaMin + c.rng.Float64()*(zoomInDeltaMax-zoomInDeltaMin)
			} else {
				s.Phase = ZoomingOut
				delta = -(zoomOutDeltaMin + c.rng.Float64()*(zoomOutDeltaMax-zoomOutDeltaMin))
			}
			s.ZoomStep = delta / float64(duration)
			s.RemainingFrames = duration
			s.FramesSinceZoom = 0
		}

	case ZoomingIn:
		s.ZoomFactor += s.ZoomStep
		s.RemainingFrames--
		if s.RemainingFrames <= 0 || s.ZoomFactor >= c.cfg.MaxZoom {
			if s.ZoomFactor > c.cfg.MaxZoom {
				s.ZoomFactor = c.cfg.MaxZoom
			}
			s.Phase = ZoomNeutral
			s.FramesSinceZoom = 0
		}

	case ZoomingOut:
		s.ZoomFactor += s.ZoomStep
		s.RemainingFrames--
		if s.RemainingFrames <= 0 || s.ZoomFactor <= c.cfg.MinZoom {
			if s.ZoomFactor < c.cfg.MinZoom {
				s.ZoomFactor = c.cfg.MinZoom
			}
			s.Phase = ZoomNeutral
			s.FramesSinceZoom = 0
		}
	}

	return s
}

// deriveRect applies the zoom factor to the base crop box, centers the
// adjusted box on the smoothed position, and clamps to source bounds as the
// final step.
func (c *Controller) deriveRect(s State) Rect {
	adjW := float64(c.cropWidth) / s.ZoomFactor
	adjH := adjW * float64(c.cfg.OutputHeight) / float64(c.cfg.OutputWidth)

	x := s.PosX + (float64(c.cropWidth)-adjW)/2
	y := s.PosY + (float64(c.cropHeight)-adjH)/2

	w := int(adjW)
	h := int(adjH)
	if w > c.cfg.InputWidth {
		w = c.cfg.InputWidth
	}
	if h > c.cfg.InputHeight {
		h = c.cfg.InputHeight
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	xi := int(x)
	yi := int(y)
	if xi < 0 {
		xi = 0
	}
	if xi+w > c.cfg.InputWidth {
		xi = c.cfg.InputWidth - w
	}
	if yi < 0 {
		yi = 0
	}
	if yi+h > c.cfg.InputHeight {
		yi = c.cfg.InputHeight - h
	}

	return Rect{X: xi, Y: yi, Width: w, Height: h}
}

// randRange returns a uniform int in [min, max].
func (c *Controller) randRange(min, max int) int {
	return min + c.rng.Intn(max-min+1)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
