package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// settings stands in for *codec.DecodeOptions/*codec.EncodeOptions: a
// plain struct built up by a chain of WithXxx-style option steps, which is
// the only shape this package ever actually configures.
type settings struct {
	level   int
	label   string
	lastSet string
}

func (s *settings) setLevel(v int) error {
	if v < 0 {
		return errors.New("level cannot be negative")
	}
	s.level = v
	s.lastSet = "level"

	return nil
}

func (s *settings) setLabel(label string) {
	s.label = label
	s.lastSet = "label"
}

func TestNew_AppliesAndPropagatesError(t *testing.T) {
	s := &settings{}

	require.NoError(t, New(func(c *settings) error { return c.setLevel(3) }).apply(s))
	require.Equal(t, 3, s.level)

	err := New(func(c *settings) error { return c.setLevel(-1) }).apply(s)
	require.Error(t, err)
	require.Contains(t, err.Error(), "negative")
}

func TestNoError_NeverFails(t *testing.T) {
	s := &settings{}

	require.NoError(t, NoError(func(c *settings) { c.setLabel("hook") }).apply(s))
	require.Equal(t, "hook", s.label)
	require.Equal(t, "label", s.lastSet)
}

func TestApply_RunsInOrderAndStopsAtFirstError(t *testing.T) {
	s := &settings{}
	opts := []Option[*settings]{
		New(func(c *settings) error { return c.setLevel(1) }),
		NoError(func(c *settings) { c.setLabel("first") }),
		New(func(c *settings) error { return c.setLevel(-5) }), // fails
		NoError(func(c *settings) { c.setLabel("unreachable") }),
	}

	err := Apply(s, opts...)
	require.Error(t, err)
	require.Equal(t, 1, s.level)
	require.Equal(t, "first", s.label, "option after the failing one must not run")
}

func TestApply_EmptyOptionsLeavesTargetUnchanged(t *testing.T) {
	s := &settings{}
	require.NoError(t, Apply(s))
	require.Equal(t, settings{}, *s)
}

// TestApply_WithXxxStyleHelpers mirrors how codec's WithAtomMode,
// WithCompression, etc. are actually built: a constructor that closes over
// an argument and returns an Option, assembled into a slice by the caller.
func TestApply_WithXxxStyleHelpers(t *testing.T) {
	withLevel := func(v int) Option[*settings] {
		return New(func(c *settings) error { return c.setLevel(v) })
	}
	withLabel := func(label string) Option[*settings] {
		return NoError(func(c *settings) { c.setLabel(label) })
	}

	s := &settings{}
	require.NoError(t, Apply(s, withLevel(7), withLabel("configured")))
	require.Equal(t, 7, s.level)
	require.Equal(t, "configured", s.label)
}
