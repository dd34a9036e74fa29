package slideshow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextWrapsAround(t *testing.T) {
	s := New(3, nil)

	assert.Equal(t, 0, s.Active())
	s.Next()
	assert.Equal(t, 1, s.Active())
	s.Next()
	assert.Equal(t, 2, s.Active())
	s.Next()
	assert.Equal(t, 0, s.Active(), "three calls over three slides must return to the start")
}

func TestGoTo(t *testing.T) {
	tests := []struct {
		name   string
		target int
		want   int
	}{
		{"First slide", 1, 0},
		{"Second slide", 2, 1},
		{"Last slide", 3, 2},
		{"Out-of-range low wraps to last", 0, 2},
		{"Negative wraps to last", -5, 2},
		{"Out-of-range high wraps to first", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(3, nil)
			s.GoTo(tt.target)
			assert.Equal(t, tt.want, s.Active())
		})
	}
}

func TestChangeCallbackReportsOneActiveSlide(t *testing.T) {
	var transitions []int
	s := New(3, func(active int) {
		transitions = append(transitions, active)
	})

	s.Next()
	s.GoTo(3)
	s.GoTo(0)

	assert.Equal(t, []int{1, 2, 2}, transitions)
}

func TestZeroSlidesIsNoop(t *testing.T) {
	called := false
	s := New(0, func(int) { called = true })

	s.Next()
	s.GoTo(1)
	s.Start()

	assert.Equal(t, 0, s.Active())
	assert.False(t, called, "no transitions should fire without slides")
}
