package clock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsed(t *testing.T) {
	tests := []struct {
		name     string
		now      Millis
		last     Millis
		expected Millis
	}{
		{"Simple", 1500, 1000, 500},
		{"Equal", 42, 42, 0},
		{"WrappedOneTick", 0, math.MaxUint32, 1},
		{"WrappedAcrossBoundary", 99, math.MaxUint32 - 100, 200},
		{"NowNumericallySmaller", 10, 4294967000, 306},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Elapsed(tt.now, tt.last))
		})
	}
}

func TestElapsedWrapProperty(t *testing.T) {
	for _, last := range []Millis{0, 1, 1 << 31, math.MaxUint32 - 5000, math.MaxUint32} {
		for _, d := range []Millis{0, 1, 20, 999, 60000, 1 << 20} {
			now := last + d
			assert.Equal(t, d, Elapsed(now, last), "last=%d d=%d", last, d)
		}
	}
}

func TestDue(t *testing.T) {
	assert.False(t, Due(1099, 1000, 100))
	assert.True(t, Due(1100, 1000, 100))
	assert.True(t, Due(50, math.MaxUint32-49, 100))
	assert.False(t, Due(48, math.MaxUint32-49, 100))
}

func TestManual(t *testing.T) {
	c := NewManual(math.MaxUint32 - 1)
	assert.Equal(t, Millis(math.MaxUint32-1), c.Now())
	assert.Equal(t, Millis(3), c.Advance(5))
	c.Set(10)
	assert.Equal(t, Millis(10), c.Now())
}

func TestMonotonicOffset(t *testing.T) {
	c := NewMonotonic(math.MaxUint32)
	now := c.Now()
	assert.Less(t, Elapsed(now, math.MaxUint32), Millis(1000))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, Millis(1500), Duration(1500*time.Millisecond+999*time.Microsecond))
}

func TestPhaseAndWave(t *testing.T) {
	assert.Equal(t, float32(0), Phase(3000, 3000))
	assert.Equal(t, float32(0.5), Phase(4500, 3000))
	assert.Equal(t, float32(0), Phase(10, 0))

	assert.InDelta(t, 0.5, Wave(0, 1000), 1e-6)
	assert.InDelta(t, 1.0, Wave(250, 1000), 1e-6)
	assert.InDelta(t, 0.0, Wave(750, 1000), 1e-6)
	assert.InDelta(t, Wave(123, 1000), Wave(1123, 1000), 1e-6)
}
