// Package clock holds the millisecond tick arithmetic shared by every engine in the superloop.
// Timers are only ever compared as now-last >= interval, which stays correct across the
// 32-bit wraparound of the hardware counter (roughly every 49.7 days).
package clock

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Millis is a free running millisecond counter that wraps at 2^32
type Millis uint32

// Elapsed returns the time since last, correct even if now has wrapped and last has not
func Elapsed(now, last Millis) Millis {
	return now - last
}

// Due reports whether at least interval has passed since last
func Due(now, last, interval Millis) bool {
	return Elapsed(now, last) >= interval
}

// Duration converts a time.Duration into Millis, truncating
func Duration(d time.Duration) Millis {
	return Millis(d / time.Millisecond)
}

// Phase returns how far elapsed is into a repeating period, in [0,1)
func Phase(elapsed, period Millis) float32 {
	if period == 0 {
		return 0
	}
	return float32(elapsed%period) / float32(period)
}

// Wave maps the phase of elapsed within period onto a sine in [0,1], starting at 0.5 and rising
func Wave(elapsed, period Millis) float32 {
	return float32(math.Sin(2*math.Pi*float64(Phase(elapsed, period)))+1) / 2
}

// Span is a range random waits are drawn from, including Min and excluding Max
type Span struct {
	Min Millis `yaml:"min" toml:"min" json:"min"`
	Max Millis `yaml:"max" toml:"max" json:"max"`
}

// Draw picks a value in [Min, Max). An empty span returns Min
func (s Span) Draw(r *rand.Rand) Millis {
	if s.Max <= s.Min {
		return s.Min
	}
	return s.Min + Millis(r.Int63n(int64(s.Max-s.Min)))
}

// Source provides the current tick
type Source interface {
	Now() Millis
}

// Monotonic counts milliseconds since it was created
type Monotonic struct {
	start time.Time
	// offset is added to every reading so the wrap can be exercised deliberately
	offset Millis
}

// NewMonotonic starts a clock at the given offset
func NewMonotonic(offset Millis) *Monotonic {
	return &Monotonic{start: time.Now(), offset: offset}
}

func (m *Monotonic) Now() Millis {
	return m.offset + Millis(uint64(time.Since(m.start)/time.Millisecond))
}

// Manual is a clock that only moves when told to
type Manual struct {
	mtx sync.Mutex
	now Millis
}

// NewManual creates a Manual clock at now
func NewManual(now Millis) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() Millis {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.now
}

// Set jumps to now
func (m *Manual) Set(now Millis) {
	m.mtx.Lock()
	m.now = now
	m.mtx.Unlock()
}

// Advance moves the clock forward by d and returns the new time
func (m *Manual) Advance(d Millis) Millis {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.now += d
	return m.now
}
