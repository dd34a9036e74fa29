// Package slideshow implements the timer-driven carousel shown next to the
// upload form. It has no data dependency on the analysis flow.
package slideshow

import (
	"sync"
	"time"
)

// DefaultInterval is how often the running slideshow advances.
const DefaultInterval = 5 * time.Second

// Slideshow is a state machine over an active index in [0, slideCount).
// The mutex guards against the ticker goroutine racing manual navigation.
type Slideshow struct {
	mu         sync.Mutex
	slideCount int
	active     int
	onChange   func(active int)
	started    bool
}

// New creates a slideshow over slideCount slides. onChange is invoked with
// the active index after every transition; exactly one slide is active at a
// time. A nil onChange is allowed.
func New(slideCount int, onChange func(active int)) *Slideshow {
	return &Slideshow{
		slideCount: slideCount,
		onChange:   onChange,
	}
}

// Active returns the current slide index.
func (s *Slideshow) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Next advances to the following slide, wrapping to the first after the
// last. No-op with zero slides.
func (s *Slideshow) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slideCount == 0 {
		return
	}
	s.setActive((s.active + 1) % s.slideCount)
}

// GoTo jumps to slide n, 1-based to match the page's indicator labels.
// Out-of-range low wraps to the last slide and out-of-range high to the
// first, the same wrap policy as Next. No-op with zero slides.
func (s *Slideshow) GoTo(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slideCount == 0 {
		return
	}

	idx := n - 1
	switch {
	case idx < 0:
		idx = s.slideCount - 1
	case idx >= s.slideCount:
		idx = 0
	}
	s.setActive(idx)
}

// Start begins advancing every DefaultInterval. The ticker runs for the
// lifetime of the process; there is no stop or pause. Calling Start more
// than once, or with zero slides, is a no-op.
func (s *Slideshow) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.slideCount == 0 {
		return
	}
	s.started = true

	go func() {
		ticker := time.NewTicker(DefaultInterval)
		for range ticker.C {
			s.Next()
		}
	}()
}

// setActive records the transition and notifies. Callers hold the mutex.
func (s *Slideshow) setActive(idx int) {
	s.active = idx
	if s.onChange != nil {
		s.onChange(idx)
	}
}
