package droid

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/audio"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/eyes"
	"github.com/calvinmclean/k2so/led"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/remote"
	"github.com/calvinmclean/k2so/rgb"
	"github.com/calvinmclean/k2so/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	ready   bool
	playing bool
	tracks  int
	volume  int
	played  [][2]int
}

func (p *fakePlayer) Ready() bool   { return p.ready }
func (p *fakePlayer) Playing() bool { return p.playing }

func (p *fakePlayer) PlayFolderTrack(folder, track int) error {
	p.played = append(p.played, [2]int{folder, track})
	return nil
}

func (p *fakePlayer) TrackCount(int) int { return p.tracks }

func (p *fakePlayer) SetVolume(v int) error {
	p.volume = v
	return nil
}

type rig struct {
	d      *Droid
	left   *led.Buffer
	status *led.Buffer
	player *fakePlayer
	angles [motion.NumAxes][]int
	out    *bytes.Buffer
	now    clock.Millis
}

// quietConfig keeps fidgets and chatter out of the way of timing assertions
func quietConfig() config.Config {
	c := config.Default()
	c.Timing.ScanWait = clock.Span{Min: 30000, Max: 60000}
	c.Timing.AlertWait = clock.Span{Min: 10000, Max: 20000}
	c.SoundPause = clock.Span{Min: 120000, Max: 300000}
	return c
}

func newRig(t *testing.T, cfg config.Config) *rig {
	t.Helper()
	r := &rig{
		left:   led.NewBuffer(13, nil),
		status: led.NewBuffer(1, nil),
		player: &fakePlayer{ready: true, tracks: 5},
		out:    &bytes.Buffer{},
	}

	hw := Hardware{
		LeftEye:  r.left,
		RightEye: led.NewBuffer(13, nil),
		Detail:   led.NewBuffer(8, nil),
		Status:   r.status,
		Player:   r.player,
	}
	for i := range hw.Servos {
		i := i
		hw.Servos[i] = motion.WriterFunc(func(deg int) error {
			r.angles[i] = append(r.angles[i], deg)
			return nil
		})
	}

	d, err := New(cfg, hw, nil, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	d.SetOutput(r.out)
	r.d = d
	return r
}

// run calls Update every 10ms up to and including to
func (r *rig) run(to clock.Millis) {
	for ; r.now <= to; r.now += 10 {
		r.d.Update(r.now)
	}
	r.now = to
}

func (r *rig) boot() {
	r.d.Start(0)
	r.run(1500)
}

func (r *rig) press(t *testing.T, name string, now clock.Millis) {
	t.Helper()
	for _, b := range r.d.Buttons() {
		if b.Name == name {
			r.d.HandleIR(b.Code, now)
			return
		}
	}
	t.Fatalf("no button %q", name)
}

func TestNewRequiresStrips(t *testing.T) {
	_, err := New(config.Default(), Hardware{}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingStrip)
}

func TestBootSequence(t *testing.T) {
	r := newRig(t, quietConfig())
	r.d.Start(0)
	assert.Equal(t, rgb.AlertRed, r.left.Pixel(0))
	assert.Equal(t, status.StateBoot, r.d.StatusLED().State())

	r.d.Update(299)
	assert.Equal(t, rgb.AlertRed, r.left.Pixel(0), "steps wait for the delay")

	r.d.Update(300)
	assert.Equal(t, rgb.Pack(0, 255, 0), r.left.Pixel(0))

	r.d.Update(600)
	assert.Equal(t, rgb.Pack(0, 0, 255), r.left.Pixel(0))

	r.d.Update(900)
	for id := range r.angles {
		require.NotEmpty(t, r.angles[id])
		assert.Equal(t, 90, r.angles[id][len(r.angles[id])-1])
	}
	assert.Empty(t, r.player.played)

	r.d.Update(1200)
	assert.Equal(t, [][2]int{{audio.FolderEffects, audio.BootTrack}}, r.player.played)
	assert.False(t, r.d.BootComplete())

	r.d.Update(1500)
	assert.Equal(t, rgb.Pack(80, 150, 255), r.left.Pixel(0))
	assert.True(t, r.d.BootComplete())
	assert.True(t, r.d.Awake())
	assert.Contains(t, r.out.String(), "K-2SO ready")
}

func TestBootWithoutAudio(t *testing.T) {
	r := newRig(t, quietConfig())
	r.player.ready = false
	r.boot()
	r.run(3000)

	assert.Empty(t, r.player.played)
	assert.True(t, r.d.BootComplete())
	assert.Equal(t, status.StateError, r.d.StatusLED().State())
}

func TestAlertServoFlash(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()
	r.run(2000)

	require.NoError(t, r.d.SetPersonality(k2so.PersonalityAlert, 2000))
	r.d.Update(2000)
	assert.Equal(t, status.StateModeAlert, r.d.StatusLED().State())
	assert.Equal(t, rgb.AlertRed, r.left.Pixel(0))
	assert.Equal(t, motion.ProfileFor(k2so.PersonalityAlert, r.d.Servos().Timing()), r.d.Servos().Profile())

	r.d.MoveServo(motion.HeadPan, 45, 2500)
	assert.Equal(t, status.Blue, r.status.Pixel(0))
	assert.True(t, r.d.StatusLED().Flashing())

	r.d.Update(2550)
	assert.Equal(t, status.Blue, r.status.Pixel(0), "flash masks the pulse")

	r.d.Update(2600)
	assert.False(t, r.d.StatusLED().Flashing())
	assert.Equal(t, status.StateModeAlert, r.d.StatusLED().State())
	assert.Equal(t, rgb.Scale(status.Red, clock.Wave(600, status.PulsePeriod)), r.status.Pixel(0))
}

func TestSetPersonalityInvalid(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()
	assert.ErrorIs(t, r.d.SetPersonality(k2so.Personality(9), 2000), k2so.ErrInvalidPersonality)
	assert.Equal(t, k2so.PersonalityScanning, r.d.Personality())
}

func TestSleepWake(t *testing.T) {
	cfg := quietConfig()
	cfg.AutoSleep = 5000
	r := newRig(t, cfg)
	r.boot()

	r.run(6490)
	assert.True(t, r.d.Awake())

	r.run(6500)
	assert.False(t, r.d.Awake())

	r.run(7600)
	assert.Equal(t, rgb.Off, r.left.Pixel(0), "eyes faded out")
	for id := range r.angles {
		assert.Equal(t, 90, r.angles[id][len(r.angles[id])-1])
	}

	r.run(8000)
	r.press(t, "7", 8000)
	assert.True(t, r.d.Awake(), "any button wakes")

	r.run(9100)
	assert.Equal(t, rgb.Pack(80, 150, 255), r.left.Pixel(0))
	assert.Equal(t, uint32(1), r.d.Status(9100).IRCommands)
}

func TestMoveServosWakesOnAlert(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()
	r.d.Sleep(2000)

	r.d.MoveServos([motion.NumAxes]int{100, 200, 45, 135}, 2100)
	assert.True(t, r.d.Awake())
	assert.Equal(t, k2so.PersonalityAlert, r.d.Personality())
	assert.Equal(t, [motion.NumAxes]int{100, 120, 45, 135}, r.d.Status(2100).Servos)
}

func TestIRButtons(t *testing.T) {
	scanColor := rgb.Pack(80, 150, 255)

	tests := []struct {
		name    string
		buttons []string
		check   func(*testing.T, *rig)
	}{
		{
			"Alert",
			[]string{"2"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, k2so.PersonalityAlert, r.d.Personality())
				assert.Equal(t, rgb.AlertRed, r.left.Pixel(0))
			},
		},
		{
			"Idle",
			[]string{"3"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, k2so.PersonalityIdle, r.d.Personality())
				assert.Equal(t, rgb.Pack(100, 60, 0), r.left.Pixel(0))
			},
		},
		{
			"LookUp",
			[]string{"UP"},
			func(t *testing.T, r *rig) {
				pos := r.d.Status(2000).Servos
				assert.Equal(t, 90, pos[motion.EyePan])
				assert.Equal(t, 120, pos[motion.EyeTilt])
			},
		},
		{
			"LookDown",
			[]string{"DOWN"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, 60, r.d.Status(2000).Servos[motion.EyeTilt])
			},
		},
		{
			"LookUpThenLeftCentresTilt",
			[]string{"UP", "LEFT"},
			func(t *testing.T, r *rig) {
				pos := r.d.Status(2000).Servos
				assert.Equal(t, 120, pos[motion.EyePan])
				assert.Equal(t, 90, pos[motion.EyeTilt])
			},
		},
		{
			"LookLeftThenDownCentresPan",
			[]string{"LEFT", "DOWN"},
			func(t *testing.T, r *rig) {
				pos := r.d.Status(2000).Servos
				assert.Equal(t, 90, pos[motion.EyePan])
				assert.Equal(t, 60, pos[motion.EyeTilt])
			},
		},
		{
			"LookDownThenRightCentresTilt",
			[]string{"DOWN", "RIGHT"},
			func(t *testing.T, r *rig) {
				pos := r.d.Status(2000).Servos
				assert.Equal(t, 60, pos[motion.EyePan])
				assert.Equal(t, 90, pos[motion.EyeTilt])
			},
		},
		{
			"LookLeftThenRight",
			[]string{"LEFT", "RIGHT"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, []int{120, 60}, r.angles[motion.EyePan][len(r.angles[motion.EyePan])-2:])
			},
		},
		{
			"ColorNext",
			[]string{"*"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, remote.Palette[1], r.left.Pixel(0))
			},
		},
		{
			"ColorPrev",
			[]string{"#"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, remote.Palette[5], r.left.Pixel(0))
			},
		},
		{
			"ToggleOff",
			[]string{"0"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, rgb.Off, r.left.Pixel(0))
			},
		},
		{
			"ToggleOn",
			[]string{"0", "0"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, rgb.White, r.left.Pixel(0))
			},
		},
		{
			"SoundFolder",
			[]string{"6"},
			func(t *testing.T, r *rig) {
				last := r.player.played[len(r.player.played)-1]
				assert.Equal(t, audio.FolderEffects, last[0])
			},
		},
		{
			"Center",
			[]string{"LEFT", "OK"},
			func(t *testing.T, r *rig) {
				assert.Equal(t, 90, r.d.Status(2000).Servos[motion.EyePan])
				assert.Equal(t, scanColor, r.left.Pixel(0))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, quietConfig())
			r.boot()
			for _, b := range tt.buttons {
				r.press(t, b, 2000)
			}
			assert.Equal(t, uint32(len(tt.buttons)), r.d.Status(2000).IRCommands)
			assert.True(t, r.d.StatusLED().Flashing(), "every press flashes")
			tt.check(t, r)
		})
	}
}

func TestIRIgnored(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()

	r.d.HandleIR(0, 2000)
	r.d.HandleIR(0xFFFFFFFF, 2000)
	assert.Equal(t, uint32(0), r.d.Status(2000).IRCommands)

	r.d.SetIREnabled(false)
	r.press(t, "2", 2000)
	assert.Equal(t, uint32(0), r.d.Status(2000).IRCommands)
	assert.Equal(t, k2so.PersonalityScanning, r.d.Personality())

	r.d.SetIREnabled(true)
	r.d.HandleIR(0x12345678, 2000)
	assert.Equal(t, uint32(1), r.d.Status(2000).IRCommands, "unknown codes still count")
}

func TestLearning(t *testing.T) {
	r := newRig(t, quietConfig())
	store := &config.MemoryStore{}
	r.d.SetStore(store)
	r.boot()
	r.run(2000)

	require.NoError(t, r.d.StartLearning(2, 2000))
	assert.Equal(t, ModeLearning, r.d.OperatingMode())
	assert.Contains(t, r.out.String(), "Press button '0' (1/2)")

	r.run(3100)
	assert.Equal(t, status.StateLearning, r.d.StatusLED().State())

	r.d.HandleIR(0x1234, 3200)
	assert.Contains(t, r.out.String(), "Press button '1' (2/2)")
	r.d.HandleIR(0x5678, 3300)

	assert.Equal(t, ModeNormal, r.d.OperatingMode())
	assert.Equal(t, []remote.Button{
		{Name: "0", Code: 0x1234, Configured: true},
		{Name: "1", Code: 0x5678, Configured: true},
	}, r.d.Buttons())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, r.d.Buttons(), saved.Buttons)

	assert.ErrorIs(t, r.d.StartLearning(22, 4000), remote.ErrButtonCount)
}

func TestLearningTimeout(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()

	require.NoError(t, r.d.StartLearning(0, 2000))
	r.d.Update(32000)
	assert.Equal(t, ModeLearning, r.d.OperatingMode())

	r.d.Update(32001)
	assert.Equal(t, ModeNormal, r.d.OperatingMode())
	assert.Contains(t, r.out.String(), "Learning timed out")
	assert.Len(t, r.d.Buttons(), len(remote.StandardNames), "old table kept")
}

func TestScannerAndMonitor(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()
	r.run(2000)

	r.d.StartScanner(2000)
	r.d.HandleIR(remote.DefaultCodes[2], 2000)
	assert.Contains(t, r.out.String(), "IR code: 0xB946FF00")
	assert.Equal(t, k2so.PersonalityScanning, r.d.Personality(), "scanner does not act on codes")

	r.d.StartMonitor(2000)
	r.run(3000)
	assert.Contains(t, r.out.String(), "Eye P/T")
	assert.Contains(t, r.out.String(), "| Scan | ")
	assert.Equal(t, status.StateConfig, r.d.StatusLED().State())

	r.d.ExitMode()
	assert.Equal(t, ModeNormal, r.d.OperatingMode())
}

func TestSaveLoad(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()
	assert.ErrorIs(t, r.d.Save(), ErrNoStore)

	r.d.SetStore(&config.MemoryStore{})
	require.NoError(t, r.d.SetVolume(7))
	r.d.SetEyeBrightness(40)
	require.NoError(t, r.d.Save())

	require.NoError(t, r.d.SetVolume(25))
	r.d.SetEyeBrightness(200)
	require.NoError(t, r.d.Load(2000))

	assert.Equal(t, 7, r.d.Audio().Volume())
	assert.Equal(t, 7, r.player.volume)
	assert.Equal(t, uint8(40), r.d.Eyes().State().Brightness)
}

func TestProfiles(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()

	require.NoError(t, r.d.SetPersonality(k2so.PersonalityIdle, 2000))
	assert.Equal(t, 0, r.d.SaveProfile("night"))

	require.NoError(t, r.d.SetPersonality(k2so.PersonalityAlert, 2100))
	p, err := r.d.LoadProfile(0, 2200)
	require.NoError(t, err)
	assert.Equal(t, "night", p.Name)
	assert.Equal(t, k2so.PersonalityIdle, r.d.Personality())

	profiles, current := r.d.Profiles()
	assert.Equal(t, 0, current)
	assert.True(t, profiles[0].Active)

	_, err = r.d.DeleteProfile(0)
	require.NoError(t, err)
	_, err = r.d.LoadProfile(0, 2300)
	assert.ErrorIs(t, err, config.ErrNoProfile)
}

func TestSetTiming(t *testing.T) {
	r := newRig(t, quietConfig())

	assert.Equal(t, clock.Span{Min: 9000, Max: 9000}, r.d.SetTiming(config.SoundPause, 9000, 10))
	assert.Equal(t, clock.Span{Min: 9000, Max: 9000}, r.d.Audio().Pause())

	assert.Equal(t, clock.Span{Min: 10, Max: 10}, r.d.SetTiming(config.ScanMove, 10, 10))
	assert.Equal(t, clock.Millis(10), r.d.Servos().Axis(motion.EyePan).Interval())
}

func TestStatusLines(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()
	r.press(t, "2", 2000)

	s := r.d.Status(4500)
	assert.Equal(t, uint32(4), s.Uptime)

	text := s.String()
	assert.Contains(t, text, "mode: alert\n")
	assert.Contains(t, text, "status_led: ")

	parsed, err := ParseStatus(strings.Split(text, "\n"))
	require.NoError(t, err)
	assert.Equal(t, s, parsed)

	_, err = ParseStatus([]string{"volume: loud"})
	assert.Error(t, err)
}

func TestSetEyeColorsDuringAnimation(t *testing.T) {
	r := newRig(t, quietConfig())
	r.boot()

	r.d.SetEyeMode(eyes.ModePulse, 1500)
	r.run(2000)
	require.True(t, r.d.Eyes().Animating())
	shows := r.left.Shows

	r.d.SetEyeColors(rgb.AlertRed, rgb.AlertRed, 2000)
	assert.Equal(t, shows+1, r.left.Shows)
	assert.Equal(t, rgb.AlertRed, r.left.Pixel(0))
	assert.Equal(t, eyes.ModeSolid, r.d.Eyes().Mode())
}
