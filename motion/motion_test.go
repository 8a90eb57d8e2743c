package motion

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	angles []int
	err    error
}

func (r *recorder) WriteAngle(deg int) error {
	r.angles = append(r.angles, deg)
	return r.err
}

var headRange = Range{Min: 0, Max: 180, Center: 90}

func TestAxisSweep(t *testing.T) {
	out := &recorder{}
	a := NewAxis(HeadPan, headRange, out)
	a.MoveTo(0)
	a.SetStep(5)
	a.SetInterval(20)
	a.SetTarget(180)
	require.True(t, a.Moving())

	ticks := 0
	for now := clock.Millis(1); now <= 720; now++ {
		if a.Update(now) {
			ticks++
			if now < 720 {
				assert.True(t, a.Moving(), "still moving at %d", now)
			}
		}
	}
	assert.Equal(t, 36, ticks)
	assert.Equal(t, 180, a.Current())
	assert.False(t, a.Moving())
	assert.Len(t, out.angles, 37, "MoveTo plus one write per tick")
	assert.False(t, a.Update(1000))
}

func TestAxisConvergence(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		step     int
	}{
		{"ExactMultiple", 90, 120, 5},
		{"Remainder", 90, 121, 5},
		{"Down", 170, 3, 7},
		{"SingleStep", 90, 91, 5},
		{"LargeStep", 10, 170, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAxis(HeadTilt, headRange, nil)
			a.MoveTo(tt.from)
			a.SetStep(tt.step)
			a.SetInterval(10)
			a.SetTarget(tt.to)

			diff := abs(tt.to - tt.from)
			want := (diff + tt.step - 1) / tt.step

			ticks := 0
			for now := clock.Millis(10); a.Moving(); now += 10 {
				require.True(t, a.Update(now))
				ticks++
				if a.Moving() {
					assert.NotEqual(t, tt.to, a.Current())
				}
				require.LessOrEqual(t, ticks, want)
			}
			assert.Equal(t, want, ticks)
			assert.Equal(t, tt.to, a.Current())
		})
	}
}

func TestAxisClampsTarget(t *testing.T) {
	a := NewAxis(EyePan, Range{Min: 60, Max: 120, Center: 90}, nil)
	a.SetTarget(200)
	assert.Equal(t, 120, a.Target())
	a.SetTarget(-5)
	assert.Equal(t, 60, a.Target())
	a.SetTarget(90)
	assert.False(t, a.Moving(), "already there")

	a.MoveTo(110)
	a.SetRange(Range{Min: 70, Max: 100, Center: 85})
	assert.Equal(t, 100, a.Target())
	assert.True(t, a.Moving())
}

func TestAxisWrapSafe(t *testing.T) {
	a := NewAxis(HeadPan, headRange, nil)
	a.SetInterval(20)
	a.SetStep(1)
	start := clock.Millis(0xFFFFFFF0)
	a.last = start
	a.SetTarget(91)

	assert.False(t, a.Update(start+10))
	assert.True(t, a.Update(start+20), "interval spans the wrap")
	assert.Equal(t, 91, a.Current())
}

func TestParseAxis(t *testing.T) {
	id, ok := ParseAxis("Head-Tilt")
	require.True(t, ok)
	assert.Equal(t, HeadTilt, id)
	_, ok = ParseAxis("tail")
	assert.False(t, ok)
}

func newTestPlanner(t *testing.T, outs [NumAxes]Writer) *Planner {
	t.Helper()
	eye := Range{Min: 60, Max: 120, Center: 90}
	return NewPlanner([NumAxes]Range{eye, eye, headRange, headRange}, outs, DefaultTiming(), nil, rand.New(rand.NewSource(5)))
}

func TestPlannerProfiles(t *testing.T) {
	p := newTestPlanner(t, [NumAxes]Writer{})

	tests := []struct {
		personality k2so.Personality
		eye, head   int
		move        clock.Span
	}{
		{k2so.PersonalityScanning, 2, 1, clock.Span{Min: 20, Max: 40}},
		{k2so.PersonalityAlert, 5, 3, clock.Span{Min: 5, Max: 15}},
	}
	for _, tt := range tests {
		t.Run(tt.personality.String(), func(t *testing.T) {
			p.ApplyPersonality(tt.personality)
			assert.Equal(t, tt.eye, p.Axis(EyePan).Step())
			assert.Equal(t, tt.eye, p.Axis(EyeTilt).Step())
			assert.Equal(t, tt.head, p.Axis(HeadPan).Step())
			for id := EyePan; id < NumAxes; id++ {
				assert.GreaterOrEqual(t, p.Axis(id).Interval(), tt.move.Min)
				assert.Less(t, p.Axis(id).Interval(), tt.move.Max)
			}
		})
	}

	t.Run("Idle", func(t *testing.T) {
		p.ApplyPersonality(k2so.PersonalityAlert)
		before := p.Axis(EyePan).Interval()
		p.ApplyPersonality(k2so.PersonalityIdle)
		assert.Equal(t, 1, p.Axis(EyePan).Step())
		assert.Equal(t, 1, p.Axis(HeadTilt).Step())
		assert.Equal(t, before, p.Axis(EyePan).Interval())
	})
}

func TestPlannerCenterAndCount(t *testing.T) {
	outs := [NumAxes]*recorder{{}, {}, {}, {}}
	p := newTestPlanner(t, [NumAxes]Writer{outs[0], outs[1], outs[2], outs[3]})

	p.SetTarget(HeadPan, 95)
	p.Axis(HeadPan).SetStep(5)
	require.True(t, p.Moving())
	p.Update(1000)
	assert.Equal(t, uint32(1), p.Movements())

	p.CenterAll()
	assert.False(t, p.Moving())
	for i, out := range outs {
		require.NotEmpty(t, out.angles)
		assert.Equal(t, p.Axis(AxisID(i)).Range().Center, out.angles[len(out.angles)-1])
	}
	assert.Equal(t, uint32(2), p.Movements())

	p.Nudge(EyeTilt, 100)
	assert.Equal(t, 120, p.Axis(EyeTilt).Current())
}

func TestPlannerWriteErrorsAreLogged(t *testing.T) {
	out := &recorder{err: errors.New("pwm fault")}
	p := newTestPlanner(t, [NumAxes]Writer{out})
	assert.NotPanics(t, func() { p.MoveTo(EyePan, 100) })
	assert.Equal(t, []int{100}, out.angles)
}

func TestFidget(t *testing.T) {
	p := newTestPlanner(t, [NumAxes]Writer{})
	f := NewFidget(p, rand.New(rand.NewSource(9)))
	var moved []AxisID
	f.OnMove = func(id AxisID) { moved = append(moved, id) }

	assert.False(t, f.Update(0, false), "asleep")
	require.True(t, f.Update(0, true), "first fidget is immediate")
	require.Len(t, moved, 1)
	a := p.Axis(moved[0])
	r := a.Range()
	assert.GreaterOrEqual(t, a.Target(), r.Min)
	assert.LessOrEqual(t, a.Target(), r.Max)

	assert.False(t, f.Update(2999, true), "scan wait is at least 3000")
	count := 0
	for now := clock.Millis(0); now < 60000; now += 100 {
		if f.Update(now, true) {
			count++
		}
	}
	assert.GreaterOrEqual(t, count, 60000/6000-1)
	assert.LessOrEqual(t, count, 60000/3000)

	p.ApplyPersonality(k2so.PersonalityIdle)
	assert.False(t, f.Update(120000, true), "idle never fidgets")
}
