package caption

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/subtitle"
)

const (
	fontDPI = 72
	// Big-word text is double the body size.
	bigWordScale = 2.0
	// Bounce amplitude in pixels at a 48pt big-word face, scaled with size.
	bounceBaseAmplitude = 20.0
	bounceCycleSeconds  = 0.6
	scaleCycleSeconds   = 1.2
)

var (
	textColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor   = color.RGBA{A: 255}
	highlightColor = color.RGBA{R: 255, G: 215, B: 0, A: 255}
)

// Config controls caption layout and animation for one output video.
type Config struct {
	Highlight    HighlightStyle
	Animation    AnimationStyle
	MaxLines     int
	FontSize     float64
	MarginX      int
	MarginBottom int
	FPS          float64
	FrameWidth   int
	FrameHeight  int
}

// Renderer draws captions onto frames. It carries the animation oscillator,
// so one renderer serves one video and frames must be drawn in order.
type Renderer struct {
	cfg      Config
	body     font.Face
	bigFont  *opentype.Font
	bigFaces map[int]font.Face
	bigSize  float64
	cycle    int
	osc      int
}

// NewRenderer builds faces for the configured sizes from the bundled Go
// fonts.
func NewRenderer(cfg Config) (*Renderer, error) {
	if cfg.FontSize <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %f", cfg.FontSize)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %f", cfg.FPS)
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	body, err := opentype.NewFace(regular, &opentype.FaceOptions{
		Size:    cfg.FontSize,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build body face: %w", err)
	}

	seconds := bounceCycleSeconds
	if cfg.Animation == AnimationScale {
		seconds = scaleCycleSeconds
	}
	cycle := int(seconds * cfg.FPS)
	if cycle < 1 {
		cycle = 1
	}

	return &Renderer{
		cfg:      cfg,
		body:     body,
		bigFont:  bold,
		bigFaces: make(map[int]font.Face),
		bigSize:  cfg.FontSize * bigWordScale,
		cycle:    cycle,
	}, nil
}

// Draw advances the animation by one frame and renders the active caption,
// if any, onto the frame. t is the frame timestamp in seconds.
func (r *Renderer) Draw(frame *image.RGBA, entry *subtitle.Entry, t float64) error {
	r.osc = (r.osc + 1) % r.cycle

	if entry == nil {
		return nil
	}

	style := r.cfg.Highlight
	if style != HighlightNone && len(entry.Words) == 0 {
		// No word timings for this cue, show it as static text.
		style = HighlightNone
	}

	switch style {
	case HighlightNone:
		r.drawPlain(frame, entry.Text)
	case HighlightStandard:
		r.drawStandard(frame, entry, t)
	case HighlightBigWord:
		return r.drawBigWord(frame, entry, t)
	}
	return nil
}

func (r *Renderer) maxTextWidth() int {
	return r.cfg.FrameWidth - 2*r.cfg.MarginX
}

func (r *Renderer) measureBody(s string) int {
	return font.MeasureString(r.body, s).Ceil()
}

func (r *Renderer) drawPlain(frame *image.RGBA, text string) {
	lines := wrapText(text, r.maxTextWidth(), r.cfg.MaxLines, r.measureBody)
	lineHeight := r.body.Metrics().Height.Ceil()
	baseY := r.cfg.FrameHeight - r.cfg.MarginBottom
	for i, line := range lines {
		y := baseY - (len(lines)-1-i)*lineHeight
		x := (r.cfg.FrameWidth - r.measureBody(line)) / 2
		r.drawString(frame, r.body, line, x, y, textColor)
	}
}

func (r *Renderer) drawStandard(frame *image.RGBA, entry *subtitle.Entry, t float64) {
	words := make([]string, len(entry.Words))
	for i, w := range entry.Words {
		words[i] = w.Text
	}
	lines := wrapWords(words, r.maxTextWidth(), r.cfg.MaxLines, r.measureBody)
	current := currentWordIndex(entry, t)

	lineHeight := r.body.Metrics().Height.Ceil()
	baseY := r.cfg.FrameHeight - r.cfg.MarginBottom
	spaceWidth := r.measureBody(" ")

	for i, line := range lines {
		y := baseY - (len(lines)-1-i)*lineHeight
		x := (r.cfg.FrameWidth - r.measureBody(line.text())) / 2
		for k, w := range line.words {
			col := color.Color(textColor)
			if line.indices[k] == current && current >= 0 {
				col = highlightColor
			}
			r.drawString(frame, r.body, w, x, y, col)
			x += r.measureBody(w) + spaceWidth
		}
	}
}

func (r *Renderer) drawBigWord(frame *image.RGBA, entry *subtitle.Entry, t float64) error {
	current := currentWordIndex(entry, t)
	if current < 0 {
		return nil
	}
	word := entry.Words[current].Text

	size := r.bigSize
	baseY := r.cfg.FrameHeight - r.cfg.MarginBottom
	phase := float64(r.osc) / float64(r.cycle)

	switch r.cfg.Animation {
	case AnimationBounce:
		amp := bounceBaseAmplitude * r.bigSize / 48.0
		baseY += int(amp * math.Sin(2*math.Pi*phase))
	case AnimationScale:
		s := math.Sin(math.Pi * phase)
		size *= 0.9 + 0.1*s*s
	}

	face, err := r.bigFace(size)
	if err != nil {
		return err
	}
	x := (r.cfg.FrameWidth - font.MeasureString(face, word).Ceil()) / 2
	r.drawString(frame, face, word, x, baseY, highlightColor)
	return nil
}

// bigFace returns a cached bold face near the requested size. Sizes are
// quantized to whole points so the scale animation reuses a handful of
// faces instead of rebuilding one per frame.
func (r *Renderer) bigFace(size float64) (font.Face, error) {
	key := int(math.Round(size))
	if key < 1 {
		key = 1
	}
	if face, ok := r.bigFaces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(r.bigFont, &opentype.FaceOptions{
		Size:    float64(key),
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build %dpt face: %w", key, err)
	}
	r.bigFaces[key] = face
	return face, nil
}

// drawString renders s with a black outline behind it for readability on
// arbitrary footage.
func (r *Renderer) drawString(dst *image.RGBA, face font.Face, s string, x, y int, col color.Color) {
	d := font.Drawer{Dst: dst, Face: face}

	d.Src = image.NewUniform(outlineColor)
	for _, off := range [4][2]int{{-2, 0}, {2, 0}, {0, -2}, {0, 2}} {
		d.Dot = fixed.P(x+off[0], y+off[1])
		d.DrawString(s)
	}

	d.Src = image.NewUniform(col)
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// currentWordIndex returns the first word whose span covers t, endpoints
// inclusive.
func currentWordIndex(entry *subtitle.Entry, t float64) int {
	for i, w := range entry.Words {
		if t >= w.Start && t <= w.End {
			return i
		}
	}
	return -1
}
