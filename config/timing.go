package config

import (
	"strings"

	"github.com/calvinmclean/k2so/clock"
)

// TimingKind selects one of the adjustable wait ranges
type TimingKind int

const (
	ScanMove TimingKind = iota
	ScanWait
	AlertMove
	AlertWait
	SoundPause
)

var timingKinds = []TimingKind{ScanMove, ScanWait, AlertMove, AlertWait, SoundPause}

func (k TimingKind) String() string {
	switch k {
	case ScanMove:
		return "scan_move"
	case ScanWait:
		return "scan_wait"
	case AlertMove:
		return "alert_move"
	case AlertWait:
		return "alert_wait"
	case SoundPause:
		return "sound_pause"
	}
	return "unknown"
}

// ParseTimingKind reads "scan move", "alert_wait", "sound" and similar
func ParseTimingKind(s string) (TimingKind, bool) {
	s = strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " "))
	if s == "sound" {
		return SoundPause, true
	}
	for _, k := range timingKinds {
		if strings.ReplaceAll(k.String(), "_", " ") == s {
			return k, true
		}
	}
	return ScanMove, false
}

// Limit bounds a Span: Min is clamped to [MinLow, MinHigh] and Max to [Min, MaxHigh]
type Limit struct {
	MinLow, MinHigh, MaxHigh clock.Millis
}

// Clamp applies the limit
func (l Limit) Clamp(min, max clock.Millis) clock.Span {
	if min < l.MinLow {
		min = l.MinLow
	}
	if min > l.MinHigh {
		min = l.MinHigh
	}
	if max < min {
		max = min
	}
	if max > l.MaxHigh {
		max = l.MaxHigh
	}
	return clock.Span{Min: min, Max: max}
}

var limits = map[TimingKind]Limit{
	ScanMove:   {1, 1000, 2000},
	ScanWait:   {100, 30000, 60000},
	AlertMove:  {1, 500, 1000},
	AlertWait:  {50, 10000, 20000},
	SoundPause: {1000, 120000, 300000},
}

// LimitFor returns the bounds of k
func LimitFor(k TimingKind) Limit {
	return limits[k]
}

func (c *Config) timingSpan(k TimingKind) *clock.Span {
	switch k {
	case ScanMove:
		return &c.Timing.ScanMove
	case ScanWait:
		return &c.Timing.ScanWait
	case AlertMove:
		return &c.Timing.AlertMove
	case AlertWait:
		return &c.Timing.AlertWait
	}
	return &c.SoundPause
}

// Span returns the current range of k
func (c Config) Span(k TimingKind) clock.Span {
	return *c.timingSpan(k)
}

// SetSpan clamps and stores a range, returning what was stored
func (c *Config) SetSpan(k TimingKind, min, max int) clock.Span {
	s := limits[k].Clamp(nonNegative(min), nonNegative(max))
	*c.timingSpan(k) = s
	return s
}

func nonNegative(v int) clock.Millis {
	if v < 0 {
		return 0
	}
	return clock.Millis(v)
}
