package droid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/rgb"
)

// Status is what the console "status" command and the control panels report
type Status struct {
	Personality    k2so.Personality    `json:"mode"`
	Operating      OperatingMode       `json:"operating_mode"`
	Awake          bool                `json:"awake"`
	BootComplete   bool                `json:"boot_complete"`
	Uptime         uint32              `json:"uptime"`
	Volume         int                 `json:"volume"`
	AudioReady     bool                `json:"audio_ready"`
	Brightness     uint8               `json:"brightness"`
	EyeMode        string              `json:"eye_mode"`
	EyeHardware    k2so.EyeHardware    `json:"eye_hardware"`
	EyeColor       rgb.Color           `json:"eye_color"`
	StatusLED      string              `json:"status_led"`
	Servos         [motion.NumAxes]int `json:"servos"`
	IREnabled      bool                `json:"ir_enabled"`
	IRCommands     uint32              `json:"ir_commands"`
	ServoMovements uint32              `json:"servo_movements"`
	SoundsPlayed   uint32              `json:"sounds_played"`
	Profile        int                 `json:"profile"`
}

// Status takes a snapshot for reporting
func (d *Droid) Status(now clock.Millis) Status {
	es := d.eyes.State()
	return Status{
		Personality:    d.personality,
		Operating:      d.mode,
		Awake:          d.awake,
		BootComplete:   d.boot.done,
		Uptime:         d.uptime(now),
		Volume:         d.audio.Volume(),
		AudioReady:     d.audio.Ready(),
		Brightness:     es.Brightness,
		EyeMode:        es.Mode.String(),
		EyeHardware:    es.Hardware,
		EyeColor:       es.Base[0],
		StatusLED:      d.status.State().String(),
		Servos:         d.servoPositions(),
		IREnabled:      d.cfg.IREnabled,
		IRCommands:     d.irCommands,
		ServoMovements: d.servos.Movements(),
		SoundsPlayed:   d.audio.Plays(),
		Profile:        d.cfg.CurrentProfile,
	}
}

// Field is one "key: value" line of a status report
type Field struct {
	Key   string
	Value string
}

// Fields renders s as ordered key value pairs, keyed like the JSON encoding
func (s Status) Fields() []Field {
	servos := make([]string, len(s.Servos))
	for i, p := range s.Servos {
		servos[i] = strconv.Itoa(p)
	}
	return []Field{
		{"mode", strings.ToLower(s.Personality.String())},
		{"operating_mode", s.Operating.String()},
		{"awake", strconv.FormatBool(s.Awake)},
		{"boot_complete", strconv.FormatBool(s.BootComplete)},
		{"uptime", strconv.FormatUint(uint64(s.Uptime), 10)},
		{"volume", strconv.Itoa(s.Volume)},
		{"audio_ready", strconv.FormatBool(s.AudioReady)},
		{"brightness", strconv.Itoa(int(s.Brightness))},
		{"eye_mode", s.EyeMode},
		{"eye_hardware", strconv.Itoa(int(s.EyeHardware))},
		{"eye_color", s.EyeColor.String()},
		{"status_led", s.StatusLED},
		{"servos", strings.Join(servos, ",")},
		{"ir_enabled", strconv.FormatBool(s.IREnabled)},
		{"ir_commands", strconv.FormatUint(uint64(s.IRCommands), 10)},
		{"servo_movements", strconv.FormatUint(uint64(s.ServoMovements), 10)},
		{"sounds_played", strconv.FormatUint(uint64(s.SoundsPlayed), 10)},
		{"profile", strconv.Itoa(s.Profile)},
	}
}

// String prints one field per line
func (s Status) String() string {
	var b strings.Builder
	for _, f := range s.Fields() {
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseStatus reads the lines written by Status.String. Unknown keys are ignored so older hosts
// keep working with newer firmware
func ParseStatus(lines []string) (Status, error) {
	var s Status
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := s.set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return s, fmt.Errorf("error parsing status %q: %w", key, err)
		}
	}
	return s, nil
}

func (s *Status) set(key, value string) error {
	var err error
	switch key {
	case "mode":
		err = s.Personality.UnmarshalText([]byte(value))
	case "operating_mode":
		err = s.Operating.UnmarshalText([]byte(value))
	case "awake":
		s.Awake, err = strconv.ParseBool(value)
	case "boot_complete":
		s.BootComplete, err = strconv.ParseBool(value)
	case "uptime":
		s.Uptime, err = parseUint32(value)
	case "volume":
		s.Volume, err = strconv.Atoi(value)
	case "audio_ready":
		s.AudioReady, err = strconv.ParseBool(value)
	case "brightness":
		var v uint64
		v, err = strconv.ParseUint(value, 10, 8)
		s.Brightness = uint8(v)
	case "eye_mode":
		s.EyeMode = value
	case "eye_hardware":
		var v int
		v, err = strconv.Atoi(value)
		s.EyeHardware = k2so.EyeHardware(v)
	case "eye_color":
		err = s.EyeColor.UnmarshalText([]byte(value))
	case "status_led":
		s.StatusLED = value
	case "servos":
		parts := strings.Split(value, ",")
		if len(parts) != len(s.Servos) {
			return fmt.Errorf("want %d servo positions, got %d", len(s.Servos), len(parts))
		}
		for i, p := range parts {
			if s.Servos[i], err = strconv.Atoi(p); err != nil {
				return err
			}
		}
	case "ir_enabled":
		s.IREnabled, err = strconv.ParseBool(value)
	case "ir_commands":
		s.IRCommands, err = parseUint32(value)
	case "servo_movements":
		s.ServoMovements, err = parseUint32(value)
	case "sounds_played":
		s.SoundsPlayed, err = parseUint32(value)
	case "profile":
		s.Profile, err = strconv.Atoi(value)
	}
	return err
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}
