package flame

import "fmt"

// Settings is the per-image, per-task rendering configuration.
// A Settings value is immutable after it passes validation: construct it with
// DefaultSettings, mutate it with the With* setters (each of
// which returns a validated copy), and hand the result to a Task. Clients
// must not keep mutating a Settings value that has already been submitted in
// a Task — the engine treats it as read-only for the task's lifetime.
type Settings struct {
	Width, Height int

	MaxTime    float64
	MaxQuality float64

	UseVariations    bool
	UsePostAffines   bool
	UseFinalTransform bool
	UseJitter        bool
	UseBlur          bool

	BlurAlpha     float64
	BlurMinRadius float64
	BlurMaxRadius float64
}

// DefaultSettings returns a reasonable default configuration.
func DefaultSettings() Settings {
	return Settings{
		Width:             1280,
		Height:            720,
		MaxTime:           60,
		MaxQuality:        256,
		UseVariations:     true,
		UsePostAffines:    true,
		UseFinalTransform: true,
		UseJitter:         true,
		UseBlur:           false,
		BlurAlpha:         0.4,
		BlurMinRadius:     0,
		BlurMaxRadius:     9,
	}
}

// Validate checks every field invariant and returns ErrInvalidSettings
// (wrapped with the offending field) on the first violation.
func (s Settings) Validate() error {
	switch {
	case s.Width < 1:
		return fmt.Errorf("%w: width must be >= 1, got %d", ErrInvalidSettings, s.Width)
	case s.Height < 1:
		return fmt.Errorf("%w: height must be >= 1, got %d", ErrInvalidSettings, s.Height)
	case !(s.MaxTime > 0):
		return fmt.Errorf("%w: maxTime must be > 0, got %v", ErrInvalidSettings, s.MaxTime)
	case !(s.MaxQuality > 0):
		return fmt.Errorf("%w: maxQuality must be > 0, got %v", ErrInvalidSettings, s.MaxQuality)
	case s.BlurAlpha < 0:
		return fmt.Errorf("%w: blurAlpha must be >= 0, got %v", ErrInvalidSettings, s.BlurAlpha)
	case s.BlurMinRadius < 0:
		return fmt.Errorf("%w: blurMinRadius must be >= 0, got %v", ErrInvalidSettings, s.BlurMinRadius)
	case s.BlurMaxRadius < s.BlurMinRadius:
		return fmt.Errorf("%w: blurMaxRadius (%v) must be >= blurMinRadius (%v)", ErrInvalidSettings, s.BlurMaxRadius, s.BlurMinRadius)
	}
	return nil
}

// Copy returns a detached snapshot: every getter on the result returns the
// same values as s at the time of the call, and later mutation of either
// value never affects the other. Settings has no reference-typed fields, so
// a plain value copy already satisfies this; Copy exists so call sites can
// say what they mean.
func (s Settings) Copy() Settings { return s }

// withValidated runs fn against a copy of s and validates the result,
// returning the previous (unmodified) value alongside ErrInvalidSettings on
// failure — every With* setter is built on this so the receiver is never
// left partially mutated.
func (s Settings) withValidated(fn func(*Settings)) (Settings, error) {
	next := s
	fn(&next)
	if err := next.Validate(); err != nil {
		return s, err
	}
	return next, nil
}

func (s Settings) WithWidth(v int) (Settings, error) {
	return s.withValidated(func(n *Settings) { n.Width = v })
}

func (s Settings) WithHeight(v int) (Settings, error) {
	return s.withValidated(func(n *Settings) { n.Height = v })
}

func (s Settings) WithMaxTime(v float64) (Settings, error) {
	return s.withValidated(func(n *Settings) { n.MaxTime = v })
}

func (s Settings) WithMaxQuality(v float64) (Settings, error) {
	return s.withValidated(func(n *Settings) { n.MaxQuality = v })
}

func (s Settings) WithBlur(alpha, minRadius, maxRadius float64) (Settings, error) {
	return s.withValidated(func(n *Settings) {
		n.UseBlur = true
		n.BlurAlpha = alpha
		n.BlurMinRadius = minRadius
		n.BlurMaxRadius = maxRadius
	})
}
