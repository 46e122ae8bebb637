// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"sync"
	"time"
)

// DefaultExtrusionDuration is the length of an extrusion animation when the
// technique does not set one.
const DefaultExtrusionDuration = 750 * time.Millisecond

// ExtrusionAnimation grows the extrusion ratio of its materials from zero
// to one. It does not run on its own; the owner calls Tick once per frame.
type ExtrusionAnimation struct {
	mu        sync.Mutex
	duration  time.Duration
	materials []*Material
	start     time.Time
	started   bool
	done      bool
}

// NewExtrusionAnimation returns an animation of the given duration. A
// non-positive duration uses DefaultExtrusionDuration.
func NewExtrusionAnimation(duration time.Duration) *ExtrusionAnimation {
	if duration <= 0 {
		duration = DefaultExtrusionDuration
	}
	return &ExtrusionAnimation{duration: duration}
}

// Duration returns the animation length.
func (a *ExtrusionAnimation) Duration() time.Duration { return a.duration }

// Add registers m and flattens it until the animation advances.
func (a *ExtrusionAnimation) Add(m *Material) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		m.ExtrusionRatio = 1
	} else {
		m.ExtrusionRatio = 0
	}
	a.materials = append(a.materials, m)
}

// Len returns the number of animated materials.
func (a *ExtrusionAnimation) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.materials)
}

// Tick advances the animation to now and returns the current ratio and
// whether the animation has finished. The first tick starts the clock.
func (a *ExtrusionAnimation) Tick(now time.Time) (ratio float64, done bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return 1, true
	}
	if !a.started {
		a.start, a.started = now, true
	}
	ratio = min(float64(now.Sub(a.start))/float64(a.duration), 1)
	ratio = easeOutCubic(max(ratio, 0))
	for _, m := range a.materials {
		m.ExtrusionRatio = ratio
	}
	a.done = ratio >= 1
	return ratio, a.done
}

// Done reports whether the animation has finished.
func (a *ExtrusionAnimation) Done() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
