package treelight

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubPattern returns one fixed color and counts advances.
type stubPattern struct {
	color    Color
	advanced int
}

func (p *stubPattern) Sample(i int) Color { return p.color }
func (p *stubPattern) Advance()           { p.advanced++ }

func TestSchedulerSingleScene(t *testing.T) {
	now := time.Unix(0, 0)
	kind := KindRainbow
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler(10, time.Minute, &kind, rng, testLogger(), now)

	require.False(t, s.Transitioning())
	require.IsType(t, &rainbow{}, s.Active())

	active := &stubPattern{color: RGB(255, 0, 0)}
	s.active = active

	// While the scene deadline is in the future, render output is the
	// active pattern alone and only the active pattern advances.
	c := s.Render(0)
	assert.Equal(t, RGB(255, 0, 0), c)

	s.Advance(now.Add(time.Second))
	assert.Equal(t, 1, active.advanced)
	assert.False(t, s.Transitioning())
}

func TestSchedulerStartsTransition(t *testing.T) {
	now := time.Unix(0, 0)
	kind := KindRainbow
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler(10, 10*time.Second, &kind, rng, testLogger(), now)

	s.Advance(now.Add(11 * time.Second))
	assert.True(t, s.Transitioning())
	assert.Equal(t, 0.0, s.Mix())
}

func TestSchedulerTransitionLength(t *testing.T) {
	now := time.Unix(0, 0)
	kind := KindRainbow
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler(10, 0, &kind, rng, testLogger(), now)

	// Wait 0 means the first advance past the deadline starts the fade.
	s.Advance(now.Add(time.Millisecond))
	require.True(t, s.Transitioning())
	require.Equal(t, 0.0, s.Mix())

	steps := 0
	for s.Transitioning() {
		s.Advance(now.Add(time.Second))
		steps++
		require.Less(t, steps, 100, "transition never completed")
	}
	assert.Equal(t, 50, steps)
	assert.Equal(t, 0.0, s.Mix())
}

func TestSchedulerRenderBlend(t *testing.T) {
	now := time.Unix(0, 0)
	kind := KindRainbow
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler(10, time.Minute, &kind, rng, testLogger(), now)

	active := &stubPattern{color: RGB(200, 0, 0)}
	incoming := &stubPattern{color: RGB(0, 0, 100)}
	s.active = active
	s.incoming = incoming

	// At mix 0 the output equals the active pattern.
	s.mix = 0
	c := s.Render(0)
	assert.Equal(t, 200.0, c.R)
	assert.Equal(t, 0.0, c.B)

	// At mix 1 it equals the incoming pattern.
	s.mix = 1
	c = s.Render(0)
	assert.Equal(t, 0.0, c.R)
	assert.Equal(t, 100.0, c.B)

	// Halfway, both contribute linearly.
	s.mix = 0.5
	c = s.Render(0)
	assert.InDelta(t, 100, c.R, 1e-9)
	assert.InDelta(t, 50, c.B, 1e-9)
}

func TestSchedulerAdvancesBothDuringTransition(t *testing.T) {
	now := time.Unix(0, 0)
	kind := KindRainbow
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler(10, time.Minute, &kind, rng, testLogger(), now)

	active := &stubPattern{}
	incoming := &stubPattern{}
	s.active = active
	s.incoming = incoming
	s.mix = 0.5

	s.Advance(now)
	assert.Equal(t, 1, active.advanced)
	assert.Equal(t, 1, incoming.advanced)
}

func TestSchedulerPromotesIncoming(t *testing.T) {
	now := time.Unix(0, 0)
	kind := KindRainbow
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler(10, time.Minute, &kind, rng, testLogger(), now)

	incoming := &stubPattern{}
	s.active = &stubPattern{}
	s.incoming = incoming
	s.mix = 0.99

	s.Advance(now)
	assert.False(t, s.Transitioning())
	assert.Same(t, incoming, s.active.(*stubPattern))
	// The promotion frame does not advance the incoming pattern.
	assert.Equal(t, 0, incoming.advanced)
}

func TestSchedulerFixedPattern(t *testing.T) {
	// With a pinned pattern and no wait, the show keeps transitioning into
	// fresh instances of the same pattern kind.
	now := time.Unix(0, 0)
	kind := KindRainbow
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler(10, 0, &kind, rng, testLogger(), now)

	first := s.Active()
	require.IsType(t, &rainbow{}, first)

	transitioned := false
	for frame := 0; frame < 120; frame++ {
		for i := 0; i < 10; i++ {
			s.Render(i)
		}
		s.Advance(now.Add(time.Duration(frame+1) * framePeriod))
		if s.Transitioning() {
			transitioned = true
		}
	}

	assert.True(t, transitioned, "scheduler never transitioned")
	assert.IsType(t, &rainbow{}, s.Active())
	assert.NotSame(t, first, s.Active())
}
