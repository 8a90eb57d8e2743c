package droid

import (
	"errors"
	"fmt"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/remote"
)

// Snapshot returns the configuration as it is running now
func (d *Droid) Snapshot() config.Config {
	c := d.cfg
	c.Personality = d.personality
	c.Volume = d.audio.Volume()

	es := d.eyes.State()
	c.Eyes.Hardware = es.Hardware
	c.Eyes.Brightness = es.Brightness

	ds := d.detail.State()
	c.Detail.Count = ds.Count
	c.Detail.Brightness = ds.Brightness
	c.Detail.Color = ds.Color
	c.Detail.Pattern = ds.Pattern
	c.Detail.Enabled = ds.Enabled
	c.Detail.AutoColor = ds.AutoColor

	for id := motion.EyePan; id < motion.NumAxes; id++ {
		*c.Servos.Range(id) = d.servos.Axis(id).Range()
	}
	c.Timing = d.servos.Timing()
	c.SoundPause = d.audio.Pause()
	c.Buttons = append([]remote.Button(nil), d.cfg.Buttons...)
	return c
}

// Save writes the running configuration to the store
func (d *Droid) Save() error {
	if d.store == nil {
		return ErrNoStore
	}
	d.cfg = d.Snapshot()
	if err := d.store.Save(d.cfg); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	d.log.Info("config saved")
	return nil
}

// Load reads the configuration from the store and applies it. Clamped values are only logged
func (d *Droid) Load(now clock.Millis) error {
	if d.store == nil {
		return ErrNoStore
	}
	c, err := d.store.Load()
	switch {
	case errors.Is(err, config.ErrOutOfRange):
		d.log.Warn("config:", err.Error())
	case err != nil:
		return fmt.Errorf("error loading config: %w", err)
	}
	d.Apply(c, now)
	d.log.Info("config loaded")
	return nil
}

// Apply pushes every setting of c into the engines
func (d *Droid) Apply(c config.Config, now clock.Millis) {
	if err := c.Validate(); err != nil {
		d.log.Warn("config:", err.Error())
	}
	d.cfg = c

	d.eyes.SetHardware(c.Eyes.Hardware, now)
	d.eyes.SetBrightness(c.Eyes.Brightness)

	if err := d.detail.SetCount(c.Detail.Count); err != nil {
		d.log.Warn(err.Error())
	}
	if err := d.detail.SetPattern(c.Detail.Pattern, now); err != nil {
		d.log.Warn(err.Error())
	}
	d.detail.SetColor(c.Detail.Color)
	d.detail.SetBrightness(c.Detail.Brightness)
	d.detail.SetAutoColor(c.Detail.AutoColor)
	d.detail.SetModeColor(k2so.PersonalityScanning, c.Detail.Colors.Scanning)
	d.detail.SetModeColor(k2so.PersonalityAlert, c.Detail.Colors.Alert)
	d.detail.SetModeColor(k2so.PersonalityIdle, c.Detail.Colors.Idle)
	d.detail.SetEnabled(c.Detail.Enabled, now)

	d.SetStatusLED(c.Status.Enabled, c.Status.Brightness)

	for id, r := range c.Servos.Ranges() {
		d.servos.Axis(motion.AxisID(id)).SetRange(r)
	}
	d.servos.SetTiming(c.Timing, c.Personality)
	d.audio.SetPause(c.SoundPause)
	if err := d.SetVolume(c.Volume); err != nil {
		d.log.Warn(err.Error())
	}

	_ = d.SetPersonality(c.Personality, now)
}

// SetTiming changes one of the wait ranges, clamped to its limits, and returns what was stored
func (d *Droid) SetTiming(k config.TimingKind, min, max int) clock.Span {
	s := d.cfg.SetSpan(k, min, max)
	if k == config.SoundPause {
		d.audio.SetPause(s)
	} else {
		d.servos.SetTiming(d.cfg.Timing, d.personality)
	}
	return s
}

// Timing returns the current range of k
func (d *Droid) Timing(k config.TimingKind) clock.Span {
	return d.cfg.Span(k)
}

// SaveProfile stores the running settings as a named profile and returns its slot
func (d *Droid) SaveProfile(name string) int {
	d.cfg = d.Snapshot()
	slot := d.cfg.SaveProfile(name)
	d.log.Info("profile saved to slot", slot, name)
	return slot
}

// LoadProfile applies a saved profile
func (d *Droid) LoadProfile(slot int, now clock.Millis) (config.Profile, error) {
	c := d.Snapshot()
	p, err := c.LoadProfile(slot)
	if err != nil {
		return p, err
	}
	d.Apply(c, now)
	d.log.Info("profile loaded from slot", slot, p.Name)
	return p, nil
}

// DeleteProfile empties a profile slot
func (d *Droid) DeleteProfile(slot int) (config.Profile, error) {
	return d.cfg.DeleteProfile(slot)
}

// Profiles returns the profile table and the current slot
func (d *Droid) Profiles() ([config.MaxProfiles]config.Profile, int) {
	return d.cfg.Profiles, d.cfg.CurrentProfile
}
