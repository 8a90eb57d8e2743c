package eyes

import "strings"

// Mode is the single animation running on the eyes
type Mode int

const (
	ModeSolid Mode = iota
	ModeFadeOff
	ModeFadeColor
	ModeFlicker
	ModePulse
	ModeScanner
	ModeIris
	ModeTargeting
	ModeRingScanner
	ModeSpiral
	ModeFocus
	ModeRadar
	ModeHeartbeat
	ModeAlarm

	numModes
)

var modeNames = [numModes]string{
	ModeSolid:       "solid",
	ModeFadeOff:     "fadeoff",
	ModeFadeColor:   "fade",
	ModeFlicker:     "flicker",
	ModePulse:       "pulse",
	ModeScanner:     "scanner",
	ModeIris:        "iris",
	ModeTargeting:   "targeting",
	ModeRingScanner: "ringscan",
	ModeSpiral:      "spiral",
	ModeFocus:       "focus",
	ModeRadar:       "radar",
	ModeHeartbeat:   "heartbeat",
	ModeAlarm:       "alarm",
}

func (m Mode) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return modeNames[m]
}

// Valid reports whether m is a defined mode
func (m Mode) Valid() bool {
	return m >= ModeSolid && m < numModes
}

// RequiresRing is true for the modes that only make sense on 13-LED center+ring eyes
func (m Mode) RequiresRing() bool {
	switch m {
	case ModeIris, ModeTargeting, ModeRingScanner, ModeSpiral, ModeFocus, ModeRadar:
		return true
	}
	return false
}

// ParseMode looks up a mode by name
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return Mode(m), true
		}
	}
	return ModeSolid, false
}

// Modes lists every mode in order
func Modes() []Mode {
	modes := make([]Mode, 0, numModes)
	for m := ModeSolid; m < numModes; m++ {
		modes = append(modes, m)
	}
	return modes
}
