// Package motion plans servo movement. Each Axis walks toward its target a fixed number of
// degrees per interval, and a Fidget scheduler hands out random targets so the droid never
// looks frozen.
package motion

import (
	"strings"

	"github.com/calvinmclean/k2so/clock"
)

// Writer is a servo output
type Writer interface {
	WriteAngle(deg int) error
}

// WriterFunc adapts a function into a Writer
type WriterFunc func(int) error

func (f WriterFunc) WriteAngle(deg int) error {
	return f(deg)
}

// AxisID names one of the four servos
type AxisID int

const (
	EyePan AxisID = iota
	EyeTilt
	HeadPan
	HeadTilt

	NumAxes
)

var axisNames = [NumAxes]string{"eyepan", "eyetilt", "headpan", "headtilt"}

func (a AxisID) String() string {
	if a < 0 || a >= NumAxes {
		return "unknown"
	}
	return axisNames[a]
}

// ParseAxis reads an axis name such as "eyepan" or "head-tilt"
func ParseAxis(s string) (AxisID, bool) {
	s = strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for i, name := range axisNames {
		if s == name {
			return AxisID(i), true
		}
	}
	return EyePan, false
}

// Range bounds an axis and names its rest position
type Range struct {
	Min    int `yaml:"min" toml:"min" json:"min"`
	Max    int `yaml:"max" toml:"max" json:"max"`
	Center int `yaml:"center" toml:"center" json:"center"`
}

// Clamp limits v to the range
func (r Range) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Valid is true when Min <= Center <= Max and everything is a legal servo angle
func (r Range) Valid() bool {
	return r.Min >= 0 && r.Max <= 180 && r.Min <= r.Center && r.Center <= r.Max
}

// Axis is a single servo stepping toward a target
type Axis struct {
	out    Writer
	rng    Range
	onFail func(AxisID, error)
	id     AxisID

	current  int
	target   int
	step     int
	interval clock.Millis
	last     clock.Millis
	moving   bool
}

// NewAxis creates an axis resting at the center of r. Nothing is written until the first move
func NewAxis(id AxisID, r Range, out Writer) *Axis {
	if out == nil {
		out = WriterFunc(func(int) error { return nil })
	}
	return &Axis{
		id:      id,
		out:     out,
		rng:     r,
		current: r.Center,
		target:  r.Center,
		step:    1,
	}
}

func (a *Axis) ID() AxisID { return a.id }
func (a *Axis) Current() int { return a.current }
func (a *Axis) Target() int { return a.target }
func (a *Axis) Moving() bool { return a.moving }
func (a *Axis) Step() int { return a.step }
func (a *Axis) Interval() clock.Millis { return a.interval }
func (a *Axis) Range() Range { return a.rng }

// SetStep sets the degrees moved per tick. Values below 1 are treated as 1
func (a *Axis) SetStep(n int) {
	if n < 1 {
		n = 1
	}
	a.step = n
}

// SetInterval sets the time between ticks
func (a *Axis) SetInterval(ms clock.Millis) {
	a.interval = ms
}

// SetRange replaces the limits, pulling the target back inside them
func (a *Axis) SetRange(r Range) {
	a.rng = r
	if a.moving || a.target != r.Clamp(a.target) {
		a.SetTarget(a.target)
	}
}

// SetTarget starts a move toward pos, clamped into range
func (a *Axis) SetTarget(pos int) {
	a.target = a.rng.Clamp(pos)
	a.moving = a.target != a.current
}

// MoveTo writes pos immediately and stops any move in progress
func (a *Axis) MoveTo(pos int) {
	pos = a.rng.Clamp(pos)
	a.current = pos
	a.target = pos
	a.moving = false
	a.write()
}

// Center moves straight to the rest position
func (a *Axis) Center() {
	a.MoveTo(a.rng.Center)
}

// Update takes one step when the interval has passed and returns true when the servo was written
func (a *Axis) Update(now clock.Millis) bool {
	if !a.moving {
		return false
	}
	if !clock.Due(now, a.last, a.interval) {
		return false
	}
	a.last = now

	diff := a.target - a.current
	switch {
	case abs(diff) <= a.step:
		a.current = a.target
		a.moving = false
	case diff > 0:
		a.current += a.step
	default:
		a.current -= a.step
	}
	a.write()
	return true
}

func (a *Axis) write() {
	if err := a.out.WriteAngle(a.current); err != nil && a.onFail != nil {
		a.onFail(a.id, err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
