package autoframe

import (
	"math/rand"
	"testing"
)

func testConfig() ControllerConfig {
	return ControllerConfig{
		InputWidth:   1920,
		InputHeight:  1080,
		OutputWidth:  1080,
		OutputHeight: 1920,
		Smoothing:    0.1,
		MinZoom:      1.0,
		MaxZoom:      1.2,
	}
}

func newTestController(t *testing.T, cfg ControllerConfig, seed int64) *Controller {
	t.Helper()
	c, err := NewController(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return c
}

func TestNewControllerValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ControllerConfig)
	}{
		{"zero input width", func(c *ControllerConfig) { c.InputWidth = 0 }},
		{"zero input height", func(c *ControllerConfig) { c.InputHeight = 0 }},
		{"zero output width", func(c *ControllerConfig) { c.OutputWidth = 0 }},
		{"smoothing too high", func(c *ControllerConfig) { c.Smoothing = 1.5 }},
		{"smoothing zero", func(c *ControllerConfig) { c.Smoothing = 0 }},
		{"inverted zoom range", func(c *ControllerConfig) { c.MinZoom = 1.5; c.MaxZoom = 1.0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := NewController(cfg, rand.New(rand.NewSource(1))); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestRectAlwaysInBounds(t *testing.T) {
	cfg := testConfig()
	c := newTestController(t, cfg, 42)
	pts := rand.New(rand.NewSource(7))

	s := c.InitialState()
	for i := 0; i < 2000; i++ {
		pt := Point{X: pts.Float64() * float64(cfg.InputWidth), Y: pts.Float64() * float64(cfg.InputHeight)}
		found := pts.Float64() > 0.3
		var r Rect
		s, r = c.Advance(s, pt, found)

		if r.Width <= 0 || r.Height <= 0 {
			t.Fatalf("frame %d: degenerate rect %+v", i, r)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.Width > cfg.InputWidth || r.Y+r.Height > cfg.InputHeight {
			t.Fatalf("frame %d: rect %+v outside %dx%d source", i, r, cfg.InputWidth, cfg.InputHeight)
		}
	}
}

func TestZoomFactorStaysWithinLimits(t *testing.T) {
	cfg := testConfig()
	c := newTestController(t, cfg, 3)

	s := c.InitialState()
	sawIn, sawOut := false, false
	// Enough frames to pass through several zoom cycles.
	for i := 0; i < 20000; i++ {
		s, _ = c.Advance(s, Point{X: 960, Y: 540}, true)
		if s.ZoomFactor < cfg.MinZoom-1e-9 || s.ZoomFactor > cfg.MaxZoom+1e-9 {
			t.Fatalf("frame %d: zoom factor %f outside [%f, %f]", i, s.ZoomFactor, cfg.MinZoom, cfg.MaxZoom)
		}
		switch s.Phase {
		case ZoomingIn:
			sawIn = true
		case ZoomingOut:
			sawOut = true
		}
	}
	if !sawIn {
		t.Error("never entered zooming_in across 20000 frames")
	}
	if !sawOut {
		t.Error("never entered zooming_out across 20000 frames")
	}
}

func TestSmoothingOneTracksExactly(t *testing.T) {
	cfg := testConfig()
	cfg.Smoothing = 1.0
	c := newTestController(t, cfg, 1)

	s := c.InitialState()
	s, _ = c.Advance(s, Point{X: 1500, Y: 540}, true)

	wantX := 1500.0 - float64(c.cropWidth)/2
	if s.PosX != wantX {
		t.Errorf("PosX = %f, want %f with smoothing 1.0", s.PosX, wantX)
	}
}

func TestHoldsTargetWhenSubjectAbsent(t *testing.T) {
	c := newTestController(t, testConfig(), 1)

	s := c.InitialState()
	s, _ = c.Advance(s, Point{X: 1600, Y: 540}, true)
	target := s.TargetX

	prevPos := s.PosX
	for i := 0; i < 50; i++ {
		s, _ = c.Advance(s, Point{}, false)
		if s.TargetX != target {
			t.Fatalf("frame %d: target moved from %f to %f with no subject", i, target, s.TargetX)
		}
		if s.PosX < prevPos {
			t.Fatalf("frame %d: position %f regressed below %f while easing toward target", i, s.PosX, prevPos)
		}
		prevPos = s.PosX
	}
}

func TestTargetClampedToSourceEdges(t *testing.T) {
	cfg := testConfig()
	c := newTestController(t, cfg, 1)

	s := c.InitialState()
	s, _ = c.Advance(s, Point{X: -500, Y: 540}, true)
	if s.TargetX != 0 {
		t.Errorf("far-left subject: TargetX = %f, want 0", s.TargetX)
	}

	s, _ = c.Advance(s, Point{X: 5000, Y: 540}, true)
	wantMax := float64(cfg.InputWidth - c.cropWidth)
	if s.TargetX != wantMax {
		t.Errorf("far-right subject: TargetX = %f, want %f", s.TargetX, wantMax)
	}
}

func TestNarrowSourceUsesFullWidth(t *testing.T) {
	cfg := testConfig()
	cfg.InputWidth = 400
	cfg.InputHeight = 1080
	c := newTestController(t, cfg, 1)

	if c.cropWidth != 400 {
		t.Errorf("crop width = %d, want full source width 400", c.cropWidth)
	}

	s := c.InitialState()
	_, r := c.Advance(s, Point{X: 200, Y: 540}, true)
	if r.X < 0 || r.X+r.Width > 400 {
		t.Errorf("rect %+v outside narrow source", r)
	}
}

func TestDeterministicUnderFixedSeed(t *testing.T) {
	run := func() []Rect {
		c := newTestController(t, testConfig(), 99)
		s := c.InitialState()
		var rects []Rect
		for i := 0; i < 1000; i++ {
			var r Rect
			s, r = c.Advance(s, Point{X: float64(i % 1920), Y: 540}, i%5 != 0)
			rects = append(rects, r)
		}
		return rects
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("frame %d differs between identical runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
