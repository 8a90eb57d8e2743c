// Package config holds every setting the droid reads at startup or when a profile changes, with
// the same defaults and limits the console enforces.
package config

import (
	"errors"
	"fmt"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/audio"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/detail"
	"github.com/calvinmclean/k2so/eyes"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/remote"
	"github.com/calvinmclean/k2so/rgb"
	"github.com/calvinmclean/k2so/status"
)

const (
	MaxProfiles = 5
	// NoProfile marks that no saved profile is loaded
	NoProfile = -1

	DefaultBootStepDelay clock.Millis = 300
	DefaultAutoSleep     clock.Millis = 60 * 60 * 1000
)

var (
	ErrOutOfRange = errors.New("value out of range")
	ErrNoProfile  = errors.New("profile slot is empty")
)

// Colors is one color per personality
type Colors struct {
	Scanning rgb.Color `yaml:"scanning" toml:"scanning" json:"scanning"`
	Alert    rgb.Color `yaml:"alert" toml:"alert" json:"alert"`
	Idle     rgb.Color `yaml:"idle" toml:"idle" json:"idle"`
}

// For returns the color of p
func (c Colors) For(p k2so.Personality) rgb.Color {
	switch p {
	case k2so.PersonalityAlert:
		return c.Alert
	case k2so.PersonalityIdle:
		return c.Idle
	}
	return c.Scanning
}

// Array orders the colors by personality
func (c Colors) Array() [3]rgb.Color {
	return [3]rgb.Color{c.Scanning, c.Alert, c.Idle}
}

// Eyes configures both eye strips
type Eyes struct {
	Hardware   k2so.EyeHardware `yaml:"hardware" toml:"hardware" json:"hardware"`
	Brightness uint8            `yaml:"brightness" toml:"brightness" json:"brightness"`
	Colors     Colors           `yaml:"colors" toml:"colors" json:"colors"`
}

// Status configures the status pixel
type Status struct {
	Brightness uint8 `yaml:"brightness" toml:"brightness" json:"brightness"`
	Enabled    bool  `yaml:"enabled" toml:"enabled" json:"enabled"`
}

// Detail configures the detail strip
type Detail struct {
	Count      int            `yaml:"count" toml:"count" json:"count"`
	Brightness uint8          `yaml:"brightness" toml:"brightness" json:"brightness"`
	Color      rgb.Color      `yaml:"color" toml:"color" json:"color"`
	Pattern    detail.Pattern `yaml:"pattern" toml:"pattern" json:"pattern"`
	Enabled    bool           `yaml:"enabled" toml:"enabled" json:"enabled"`
	AutoColor  bool           `yaml:"auto_color" toml:"auto_color" json:"auto_color"`
	Colors     Colors         `yaml:"colors" toml:"colors" json:"colors"`
}

// Servos holds the calibration of each axis
type Servos struct {
	EyePan   motion.Range `yaml:"eye_pan" toml:"eye_pan" json:"eye_pan"`
	EyeTilt  motion.Range `yaml:"eye_tilt" toml:"eye_tilt" json:"eye_tilt"`
	HeadPan  motion.Range `yaml:"head_pan" toml:"head_pan" json:"head_pan"`
	HeadTilt motion.Range `yaml:"head_tilt" toml:"head_tilt" json:"head_tilt"`
}

// Ranges orders the ranges by motion.AxisID
func (s Servos) Ranges() [motion.NumAxes]motion.Range {
	return [motion.NumAxes]motion.Range{s.EyePan, s.EyeTilt, s.HeadPan, s.HeadTilt}
}

// Range returns a pointer to the range of id so callers can edit it in place
func (s *Servos) Range(id motion.AxisID) *motion.Range {
	switch id {
	case motion.EyePan:
		return &s.EyePan
	case motion.EyeTilt:
		return &s.EyeTilt
	case motion.HeadPan:
		return &s.HeadPan
	case motion.HeadTilt:
		return &s.HeadTilt
	}
	return nil
}

// Config is everything the droid can be told to remember
type Config struct {
	Personality   k2so.Personality `yaml:"personality" toml:"personality" json:"personality"`
	Volume        int              `yaml:"volume" toml:"volume" json:"volume"`
	IREnabled     bool             `yaml:"ir_enabled" toml:"ir_enabled" json:"ir_enabled"`
	BootStepDelay clock.Millis     `yaml:"boot_step_delay" toml:"boot_step_delay" json:"boot_step_delay"`
	AutoSleep     clock.Millis     `yaml:"auto_sleep" toml:"auto_sleep" json:"auto_sleep"`

	Eyes   Eyes   `yaml:"eyes" toml:"eyes" json:"eyes"`
	Status Status `yaml:"status" toml:"status" json:"status"`
	Detail Detail `yaml:"detail" toml:"detail" json:"detail"`
	Servos Servos `yaml:"servos" toml:"servos" json:"servos"`

	Timing     motion.Timing `yaml:"timing" toml:"timing" json:"timing"`
	SoundPause clock.Span    `yaml:"sound_pause" toml:"sound_pause" json:"sound_pause"`

	Buttons []remote.Button `yaml:"buttons" toml:"buttons" json:"buttons"`

	Profiles       [MaxProfiles]Profile `yaml:"profiles" toml:"profiles" json:"profiles"`
	CurrentProfile int                  `yaml:"current_profile" toml:"current_profile" json:"current_profile"`
}

// Default returns the factory settings
func Default() Config {
	eye := motion.Range{Min: 60, Max: 120, Center: 90}
	head := motion.Range{Min: 0, Max: 180, Center: 90}
	red := rgb.AlertRed

	return Config{
		Personality:   k2so.PersonalityScanning,
		Volume:        audio.DefaultVolume,
		IREnabled:     true,
		BootStepDelay: DefaultBootStepDelay,
		AutoSleep:     DefaultAutoSleep,
		Eyes: Eyes{
			Hardware:   eyes.DefaultConfig().Hardware,
			Brightness: eyes.DefaultConfig().Brightness,
			Colors: Colors{
				Scanning: rgb.Pack(80, 150, 255),
				Alert:    rgb.AlertRed,
				Idle:     rgb.Pack(100, 60, 0),
			},
		},
		Status: Status{
			Brightness: status.DefaultBrightness,
			Enabled:    true,
		},
		Detail: Detail{
			Count:      detail.DefaultConfig().Count,
			Brightness: detail.DefaultConfig().Brightness,
			Color:      red,
			Pattern:    detail.DefaultConfig().Pattern,
			Enabled:    true,
			Colors:     Colors{Scanning: red, Alert: red, Idle: red},
		},
		Servos: Servos{
			EyePan:   eye,
			EyeTilt:  eye,
			HeadPan:  head,
			HeadTilt: head,
		},
		Timing:         motion.DefaultTiming(),
		SoundPause:     audio.DefaultPause,
		Buttons:        remote.DefaultButtons(),
		CurrentProfile: NoProfile,
	}
}

// EyesConfig builds the eye engine settings
func (c Config) EyesConfig() eyes.Config {
	return eyes.Config{
		Hardware:   c.Eyes.Hardware,
		Brightness: c.Eyes.Brightness,
		Color:      c.Eyes.Colors.For(c.Personality),
	}
}

// DetailConfig builds the detail engine settings
func (c Config) DetailConfig() detail.Config {
	return detail.Config{
		Count:      c.Detail.Count,
		Brightness: c.Detail.Brightness,
		Color:      c.Detail.Color,
		Pattern:    c.Detail.Pattern,
		Enabled:    c.Detail.Enabled,
		AutoColor:  c.Detail.AutoColor,
		ModeColors: c.Detail.Colors.Array(),
	}
}

// Validate pulls every field back into its legal range. The returned error lists what was changed
// and wraps ErrOutOfRange; the config is usable either way
func (c *Config) Validate() error {
	def := Default()
	var errs []error
	fix := func(field string, got, want any) {
		errs = append(errs, fmt.Errorf("%w: %s %v, using %v", ErrOutOfRange, field, got, want))
	}

	if !c.Personality.Valid() {
		fix("personality", int(c.Personality), def.Personality)
		c.Personality = def.Personality
	}
	if c.Volume < 0 || c.Volume > audio.MaxVolume {
		v := clampInt(c.Volume, 0, audio.MaxVolume)
		fix("volume", c.Volume, v)
		c.Volume = v
	}
	if c.BootStepDelay == 0 {
		fix("boot_step_delay", c.BootStepDelay, def.BootStepDelay)
		c.BootStepDelay = def.BootStepDelay
	}
	if c.AutoSleep == 0 {
		fix("auto_sleep", c.AutoSleep, def.AutoSleep)
		c.AutoSleep = def.AutoSleep
	}
	if !c.Eyes.Hardware.Valid() {
		fix("eyes.hardware", int(c.Eyes.Hardware), def.Eyes.Hardware)
		c.Eyes.Hardware = def.Eyes.Hardware
	}
	if c.Detail.Count < 1 || c.Detail.Count > detail.MaxLEDs {
		v := clampInt(c.Detail.Count, 1, detail.MaxLEDs)
		fix("detail.count", c.Detail.Count, v)
		c.Detail.Count = v
	}
	if !c.Detail.Pattern.Valid() {
		fix("detail.pattern", int(c.Detail.Pattern), def.Detail.Pattern)
		c.Detail.Pattern = def.Detail.Pattern
	}

	for id := motion.EyePan; id < motion.NumAxes; id++ {
		r := c.Servos.Range(id)
		if fixed := fixRange(*r); fixed != *r {
			fix("servos."+id.String(), *r, fixed)
			*r = fixed
		}
	}

	for _, k := range timingKinds {
		s := c.timingSpan(k)
		if fixed := limits[k].Clamp(s.Min, s.Max); fixed != *s {
			fix("timing."+k.String(), *s, fixed)
			*s = fixed
		}
	}

	if len(c.Buttons) > remote.MaxButtons {
		fix("buttons", len(c.Buttons), remote.MaxButtons)
		c.Buttons = c.Buttons[:remote.MaxButtons]
	}
	if c.CurrentProfile < NoProfile || c.CurrentProfile >= MaxProfiles || (c.CurrentProfile != NoProfile && !c.Profiles[c.CurrentProfile].Active) {
		fix("current_profile", c.CurrentProfile, NoProfile)
		c.CurrentProfile = NoProfile
	}

	return errors.Join(errs...)
}

func fixRange(r motion.Range) motion.Range {
	r.Min = clampInt(r.Min, 0, 180)
	r.Max = clampInt(r.Max, r.Min, 180)
	r.Center = clampInt(r.Center, r.Min, r.Max)
	return r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
