package k2so

import (
	"errors"
	"strings"
)

// LineTerminator ends every console command and response line
const LineTerminator = '\n'

// Personality is the coarse behavioral profile of the droid. It selects eye color, servo speed and
// which sound folder is used for random chatter
type Personality int

const (
	PersonalityScanning Personality = iota
	PersonalityAlert
	PersonalityIdle
)

func (p Personality) String() string {
	switch p {
	case PersonalityScanning:
		return "Scanning"
	case PersonalityAlert:
		return "Alert"
	case PersonalityIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Next cycles to the next Personality, wrapping back to Scanning after Idle
func (p Personality) Next() Personality {
	if p >= PersonalityIdle || p < PersonalityScanning {
		return PersonalityScanning
	}
	return p + 1
}

// Valid reports whether p is one of the defined personalities
func (p Personality) Valid() bool {
	return p >= PersonalityScanning && p <= PersonalityIdle
}

// ParsePersonality accepts a name ("scanning", "alert", "idle") or the 1-based index used on the IR remote
func ParsePersonality(s string) (Personality, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scanning", "scan", "1":
		return PersonalityScanning, true
	case "alert", "2":
		return PersonalityAlert, true
	case "idle", "3":
		return PersonalityIdle, true
	}
	return PersonalityScanning, false
}

// ErrInvalidPersonality is returned when a personality name is not recognized
var ErrInvalidPersonality = errors.New("invalid personality")

// MarshalText writes the lower case name
func (p Personality) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, ErrInvalidPersonality
	}
	return []byte(strings.ToLower(p.String())), nil
}

// UnmarshalText accepts anything ParsePersonality does
func (p *Personality) UnmarshalText(b []byte) error {
	v, ok := ParsePersonality(string(b))
	if !ok {
		return errors.Join(ErrInvalidPersonality, errors.New(string(b)))
	}
	*p = v
	return nil
}

// EyeHardware selects the physical LED topology of each eye
type EyeHardware int

const (
	// EyeHardware7 is a 7 pixel linear strip per eye
	EyeHardware7 EyeHardware = 7
	// EyeHardware13 is a 13 pixel eye: center pixel 0 plus a 12 pixel ring
	EyeHardware13 EyeHardware = 13
)

// Pixels returns the number of active pixels per eye
func (v EyeHardware) Pixels() int {
	if v == EyeHardware7 {
		return 7
	}
	return 13
}

func (v EyeHardware) String() string {
	switch v {
	case EyeHardware7:
		return "7-LED"
	case EyeHardware13:
		return "13-LED"
	default:
		return "Unknown"
	}
}

// Valid reports whether v is a supported topology
func (v EyeHardware) Valid() bool {
	return v == EyeHardware7 || v == EyeHardware13
}

// Logger receives diagnostic lines. *zap.SugaredLogger satisfies it, and the firmware uses a
// println based implementation
type Logger interface {
	Info(args ...any)
	Warn(args ...any)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Info(...any) {}
func (NopLogger) Warn(...any) {}
