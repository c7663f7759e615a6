package flame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsValidates(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
}

func TestValidateRejectsBadFields(t *testing.T) {
	base := DefaultSettings()

	tests := []struct {
		name string
		fn   func(*Settings)
	}{
		{"zero width", func(s *Settings) { s.Width = 0 }},
		{"negative height", func(s *Settings) { s.Height = -1 }},
		{"zero maxTime", func(s *Settings) { s.MaxTime = 0 }},
		{"negative maxQuality", func(s *Settings) { s.MaxQuality = -1 }},
		{"negative blurAlpha", func(s *Settings) { s.BlurAlpha = -0.1 }},
		{"negative blurMinRadius", func(s *Settings) { s.BlurMinRadius = -1 }},
		{"blurMaxRadius below min", func(s *Settings) { s.BlurMinRadius, s.BlurMaxRadius = 5, 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.fn(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestWithSettersReturnPreviousValueOnFailure(t *testing.T) {
	s := DefaultSettings()

	next, err := s.WithWidth(0)
	require.Error(t, err)
	assert.Equal(t, s, next)

	next, err = s.WithWidth(1920)
	require.NoError(t, err)
	assert.Equal(t, 1920, next.Width)
	assert.Equal(t, s.Width, 1280, "original settings must be untouched")
}

func TestCopyIsDetached(t *testing.T) {
	s := DefaultSettings()
	c := s.Copy()
	c.Width = 99
	assert.Equal(t, 1280, s.Width)
	assert.Equal(t, 99, c.Width)
}

func TestWithBlurEnablesBlur(t *testing.T) {
	s := DefaultSettings()
	next, err := s.WithBlur(0.5, 1, 6)
	require.NoError(t, err)
	assert.True(t, next.UseBlur)
	assert.Equal(t, 0.5, next.BlurAlpha)
	assert.Equal(t, 1.0, next.BlurMinRadius)
	assert.Equal(t, 6.0, next.BlurMaxRadius)
}
