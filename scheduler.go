package treelight

import (
	"log/slog"
	"math/rand"
	"time"
)

// mixStep is the per-frame cross-fade increment. At the nominal frame rate a
// transition takes 50 frames, about two seconds.
const mixStep = 0.02

// Scheduler owns the currently playing pattern and cross-fades to a new one
// whenever a scene has run for the configured wait duration. It is driven by
// the frame loop: Render for every pixel, then exactly one Advance per frame.
type Scheduler struct {
	numLEDs int
	wait    time.Duration
	fixed   *Kind
	rng     *rand.Rand
	logger  *slog.Logger

	active    Pattern
	incoming  Pattern
	mix       float64
	nextScene time.Time
}

// NewScheduler creates a scheduler and picks the first scene. If fixed is
// non-nil every scene uses that pattern kind (with fresh random parameters);
// otherwise kinds are drawn uniformly at random.
func NewScheduler(numLEDs int, wait time.Duration, fixed *Kind, rng *rand.Rand, logger *slog.Logger, now time.Time) *Scheduler {
	s := &Scheduler{
		numLEDs: numLEDs,
		wait:    wait,
		fixed:   fixed,
		rng:     rng,
		logger:  logger,
	}
	s.active = s.newScene()
	s.nextScene = now.Add(wait)
	return s
}

func (s *Scheduler) newScene() Pattern {
	kind := Kind(s.rng.Intn(NumKinds))
	if s.fixed != nil {
		kind = *s.fixed
	}
	s.logger.Debug("next scene", "pattern", kind)
	return NewPattern(kind, s.numLEDs, s.rng)
}

// Transitioning reports whether a cross-fade is in progress.
func (s *Scheduler) Transitioning() bool {
	return s.incoming != nil
}

// Mix returns the current cross-fade fraction. It is only meaningful while
// Transitioning.
func (s *Scheduler) Mix() float64 {
	return s.mix
}

// Active returns the current pattern.
func (s *Scheduler) Active() Pattern {
	return s.active
}

// Render returns the color of the given pixel. During a transition the two
// patterns are blended linearly by the current mix.
func (s *Scheduler) Render(i int) Color {
	c := s.active.Sample(i)
	if s.incoming == nil {
		return c
	}
	c = c.Scale(1 - s.mix)
	return c.Add(s.incoming.Sample(i).Scale(s.mix))
}

// Advance moves the animation forward one frame and runs the scene state
// machine: it starts a transition when the scene deadline has passed, steps
// the mix while one is running, and promotes the incoming pattern once the
// fade completes.
func (s *Scheduler) Advance(now time.Time) {
	s.active.Advance()

	if s.incoming == nil {
		if s.nextScene.Before(now) {
			s.incoming = s.newScene()
			s.mix = 0
		}
		return
	}

	s.mix += mixStep
	if s.mix >= 1 {
		s.active = s.incoming
		s.incoming = nil
		s.mix = 0
		s.nextScene = now.Add(s.wait)
		return
	}
	s.incoming.Advance()
}
