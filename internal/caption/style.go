// Package caption renders subtitle text onto composed frames, optionally
// highlighting or animating the currently spoken word.
package caption

import "fmt"

// HighlightStyle selects how the currently spoken word is presented.
type HighlightStyle int

const (
	// HighlightNone draws the full caption with no per-word treatment.
	HighlightNone HighlightStyle = iota
	// HighlightStandard draws the full caption and recolors the current word.
	HighlightStandard
	// HighlightBigWord draws only the current word, enlarged and animated.
	HighlightBigWord
)

func (s HighlightStyle) String() string {
	switch s {
	case HighlightNone:
		return "none"
	case HighlightStandard:
		return "standard"
	case HighlightBigWord:
		return "bigword"
	default:
		return "unknown"
	}
}

// ParseHighlightStyle maps a config string to a style.
func ParseHighlightStyle(s string) (HighlightStyle, error) {
	switch s {
	case "none", "":
		return HighlightNone, nil
	case "standard":
		return HighlightStandard, nil
	case "bigword":
		return HighlightBigWord, nil
	default:
		return HighlightNone, fmt.Errorf("unknown highlight style %q", s)
	}
}

// AnimationStyle selects the big-word motion.
type AnimationStyle int

const (
	// AnimationBounce moves the word vertically on a sine wave.
	AnimationBounce AnimationStyle = iota
	// AnimationScale pulses the word size.
	AnimationScale
)

func (s AnimationStyle) String() string {
	switch s {
	case AnimationBounce:
		return "bounce"
	case AnimationScale:
		return "scale"
	default:
		return "unknown"
	}
}

// ParseAnimationStyle maps a config string to an animation.
func ParseAnimationStyle(s string) (AnimationStyle, error) {
	switch s {
	case "bounce", "":
		return AnimationBounce, nil
	case "scale":
		return AnimationScale, nil
	default:
		return AnimationBounce, fmt.Errorf("unknown animation style %q", s)
	}
}
