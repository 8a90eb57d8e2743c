package config

import (
	"fmt"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/rgb"
)

// MaxProfileName is the longest profile name kept
const MaxProfileName = 15

// Profile is a named snapshot of the settings people tweak most
type Profile struct {
	Name          string              `yaml:"name" toml:"name" json:"name"`
	Active        bool                `yaml:"active" toml:"active" json:"active"`
	Personality   k2so.Personality    `yaml:"personality" toml:"personality" json:"personality"`
	Volume        int                 `yaml:"volume" toml:"volume" json:"volume"`
	EyeBrightness uint8               `yaml:"eye_brightness" toml:"eye_brightness" json:"eye_brightness"`
	Centers       [motion.NumAxes]int `yaml:"centers" toml:"centers" json:"centers"`
	Timing        motion.Timing       `yaml:"timing" toml:"timing" json:"timing"`
	SoundPause    clock.Span          `yaml:"sound_pause" toml:"sound_pause" json:"sound_pause"`
	ScanColor     rgb.Color           `yaml:"scan_color" toml:"scan_color" json:"scan_color"`
	AlertColor    rgb.Color           `yaml:"alert_color" toml:"alert_color" json:"alert_color"`
}

// Snapshot captures the current settings as a profile called name
func (c Config) Snapshot(name string) Profile {
	if len(name) > MaxProfileName {
		name = name[:MaxProfileName]
	}
	var centers [motion.NumAxes]int
	for i, r := range c.Servos.Ranges() {
		centers[i] = r.Center
	}
	return Profile{
		Name:          name,
		Active:        true,
		Personality:   c.Personality,
		Volume:        c.Volume,
		EyeBrightness: c.Eyes.Brightness,
		Centers:       centers,
		Timing:        c.Timing,
		SoundPause:    c.SoundPause,
		ScanColor:     c.Eyes.Colors.Scanning,
		AlertColor:    c.Eyes.Colors.Alert,
	}
}

// Apply copies a profile over the current settings. Centers outside the axis range are clamped
func (c *Config) Apply(p Profile) {
	c.Personality = p.Personality
	c.Volume = p.Volume
	c.Eyes.Brightness = p.EyeBrightness
	for i, center := range p.Centers {
		r := c.Servos.Range(motion.AxisID(i))
		r.Center = r.Clamp(center)
	}
	c.Timing = p.Timing
	c.SoundPause = p.SoundPause
	c.Eyes.Colors.Scanning = p.ScanColor
	c.Eyes.Colors.Alert = p.AlertColor
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= MaxProfiles {
		return fmt.Errorf("%w: profile slot %d", ErrOutOfRange, slot)
	}
	return nil
}

// SaveProfile stores a snapshot in the first empty slot, or slot 0 when all are taken, and makes
// it current
func (c *Config) SaveProfile(name string) int {
	slot := 0
	for i, p := range c.Profiles {
		if !p.Active {
			slot = i
			break
		}
	}
	c.Profiles[slot] = c.Snapshot(name)
	c.CurrentProfile = slot
	return slot
}

// LoadProfile applies the profile in slot and makes it current
func (c *Config) LoadProfile(slot int) (Profile, error) {
	if err := checkSlot(slot); err != nil {
		return Profile{}, err
	}
	p := c.Profiles[slot]
	if !p.Active {
		return Profile{}, fmt.Errorf("%w: %d", ErrNoProfile, slot)
	}
	c.Apply(p)
	c.CurrentProfile = slot
	return p, nil
}

// DeleteProfile empties slot
func (c *Config) DeleteProfile(slot int) (Profile, error) {
	if err := checkSlot(slot); err != nil {
		return Profile{}, err
	}
	p := c.Profiles[slot]
	if !p.Active {
		return Profile{}, fmt.Errorf("%w: %d", ErrNoProfile, slot)
	}
	c.Profiles[slot] = Profile{}
	if c.CurrentProfile == slot {
		c.CurrentProfile = NoProfile
	}
	return p, nil
}
