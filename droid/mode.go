package droid

import (
	"fmt"
	"strings"

	"github.com/calvinmclean/k2so/clock"
)

// OperatingMode decides where IR codes go and whether the monitor prints
type OperatingMode int

const (
	ModeNormal OperatingMode = iota
	ModeIRScanner
	ModeLearning
	ModeMonitor
)

func (m OperatingMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeIRScanner:
		return "ir_scanner"
	case ModeLearning:
		return "learning"
	case ModeMonitor:
		return "monitor"
	}
	return "unknown"
}

func (m OperatingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *OperatingMode) UnmarshalText(b []byte) error {
	for v := ModeNormal; v <= ModeMonitor; v++ {
		if strings.EqualFold(v.String(), string(b)) {
			*m = v
			return nil
		}
	}
	return fmt.Errorf("unknown operating mode %q", b)
}

// StartScanner prints every received IR code instead of acting on it
func (d *Droid) StartScanner(now clock.Millis) {
	d.exitMode()
	d.mode = ModeIRScanner
	d.printf("IR scanner active, press buttons to see their codes. Type 'exit' to stop\n")
	d.log.Info("IR scanner mode")
}

// StartMonitor prints a status line every MonitorInterval
func (d *Droid) StartMonitor(now clock.Millis) {
	d.exitMode()
	d.mode = ModeMonitor
	d.lastMonitor = now
	d.printf("  Time | Mode | Eye P/T | Head P/T |     IR     | Aud | Status\n")
	d.log.Info("monitor mode")
}

// ExitMode returns to normal operation, abandoning any learning in progress
func (d *Droid) ExitMode() {
	if d.mode == ModeNormal {
		return
	}
	d.exitMode()
	d.printf("Normal mode\n")
}

func (d *Droid) exitMode() {
	if d.learner.Active() {
		d.learner.Cancel()
		d.log.Info("IR learning cancelled")
	}
	d.mode = ModeNormal
}

func (d *Droid) printMonitor(now clock.Millis) {
	ir := "--"
	if d.lastIR != 0 {
		ir = fmt.Sprintf("0x%08X", d.lastIR)
	}
	aud := "ERR"
	if d.audio.Ready() {
		aud = "OK"
	}
	name := d.personality.String()
	if len(name) > 4 {
		name = name[:4]
	}
	pos := d.servoPositions()
	d.printf("%6d | %-4s | %3d/%3d | %3d/%3d  | %-10s | %-3s | %s\n",
		d.uptime(now), name, pos[0], pos[1], pos[2], pos[3], ir, aud, d.status.State())
}

func (d *Droid) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}
