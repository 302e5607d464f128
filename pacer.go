package treelight

import "time"

const (
	// framePeriod is the nominal time between frames, 25 FPS.
	framePeriod = 40 * time.Millisecond
	// minSleep is the floor slept even when a frame overran, so the loop
	// always yields between frames.
	minSleep = 10 * time.Millisecond
)

// pacer schedules frame ticks against the wall clock. When a frame finishes
// with at least minSleep to spare, the next tick stays on the nominal grid.
// When rendering falls behind, the grid is reset a little into the future
// instead of queueing a backlog of overdue ticks.
type pacer struct {
	next time.Time
}

func newPacer(now time.Time) *pacer {
	return &pacer{next: now.Add(framePeriod)}
}

// delay returns how long to sleep before the next frame. Never negative.
func (p *pacer) delay(now time.Time) time.Duration {
	w := p.next.Sub(now)
	if w >= minSleep {
		p.next = p.next.Add(framePeriod)
		return w
	}
	p.next = now.Add(framePeriod + minSleep)
	return minSleep
}
