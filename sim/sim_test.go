package sim

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/audio"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/rgb"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSim(t *testing.T) (*Sim, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(0)
	s, err := New(config.Default(), nil, nil, rand.New(rand.NewSource(2)), clk)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for clk.Now() < 2000 {
		clk.Advance(20)
		s.Update()
	}
	return s, clk
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestEyeLayout(t *testing.T) {
	ring := eyeLayout(k2so.EyeHardware13)
	require.Len(t, ring, 13)
	assert.Equal(t, point{0, 0}, ring[0], "center")
	assert.Equal(t, point{0, -eyeRadiusY}, ring[1], "top")
	assert.Equal(t, point{eyeRadiusX, 0}, ring[4], "right")
	assert.Equal(t, point{0, eyeRadiusY}, ring[7], "bottom")

	row := eyeLayout(k2so.EyeHardware7)
	assert.Equal(t, []point{{-6, 0}, {-4, 0}, {-2, 0}, {0, 0}, {2, 0}, {4, 0}, {6, 0}}, row)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "[|----]", bar(0, 5))
	assert.Equal(t, "[--|--]", bar(90, 5))
	assert.Equal(t, "[----|]", bar(180, 5))
}

func samples(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestClip(t *testing.T) {
	a, err := Clip(audio.FolderScanning, 3, audio.DefaultVolume)
	require.NoError(t, err)
	b, err := Clip(audio.FolderScanning, 3, audio.DefaultVolume)
	require.NoError(t, err)

	n := samples(a)
	assert.Positive(t, n)
	assert.Equal(t, n, samples(b), "same track, same chirps")

	alert, err := Clip(audio.FolderAlert, 3, 0)
	require.NoError(t, err)
	assert.Positive(t, samples(alert))
}

func TestRemoteKeys(t *testing.T) {
	s, clk := newSim(t)
	ctx := context.Background()

	assert.True(t, s.handleKey(ctx, key(tcell.KeyUp)))
	s.link.Do(func(d *droid.Droid, _ clock.Millis) {
		assert.Equal(t, 120, d.Servos().Axis(motion.EyeTilt).Current())
	})

	clk.Advance(100)
	assert.True(t, s.handleKey(ctx, runeKey('p')))
	s.link.Do(func(d *droid.Droid, _ clock.Millis) {
		assert.Equal(t, k2so.PersonalityAlert, d.Personality())
	})

	assert.True(t, s.handleKey(ctx, runeKey('s')))
	s.link.Do(func(d *droid.Droid, _ clock.Millis) {
		assert.False(t, d.Awake())
	})

	assert.False(t, s.handleKey(ctx, runeKey('q')))
	assert.False(t, s.handleKey(ctx, key(tcell.KeyCtrlC)))
}

func TestConsolePrompt(t *testing.T) {
	s, _ := newSim(t)
	ctx := context.Background()

	s.handleKey(ctx, runeKey(':'))
	for _, r := range "volume 77" {
		s.handleKey(ctx, runeKey(r))
	}
	s.handleKey(ctx, key(tcell.KeyBackspace2))
	s.handleKey(ctx, key(tcell.KeyBackspace2))
	s.handleKey(ctx, runeKey('7'))

	f := s.snapshot()
	assert.True(t, f.typing)
	assert.Equal(t, "volume 7", f.prompt)

	s.handleKey(ctx, key(tcell.KeyEnter))

	assert.Eventually(t, func() bool {
		var v int
		s.link.Do(func(d *droid.Droid, _ clock.Millis) { v = d.Audio().Volume() })
		return v == 7
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		for _, line := range s.snapshot().log {
			if line == "> volume 7" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestSnapshot(t *testing.T) {
	s, _ := newSim(t)
	f := s.snapshot()

	assert.Equal(t, k2so.EyeHardware13, f.hardware)
	assert.Len(t, f.eyes[0], 13)
	assert.Len(t, f.detail, 8)
	assert.True(t, f.status.BootComplete)
	assert.NotEqual(t, rgb.Off, f.eyes[0][0], "eyes are lit after boot")
}
