// Package commands is the text console of the droid. Lines are split like a shell would split
// them, looked up by their first word and run against a Controller. Every command ends its output
// with a line holding ResponseOK or ResponseError so a host can tell where one reply stops.
package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/detail"
	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/eyes"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/remote"
	"github.com/calvinmclean/k2so/rgb"
	"github.com/calvinmclean/k2so/status"

	"github.com/google/shlex"
)

const (
	ResponseOK    = "OK"
	ResponseError = "ERR"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Controller is what the console drives. *droid.Droid implements it
type Controller interface {
	Status(now clock.Millis) droid.Status
	SetPersonality(k2so.Personality, clock.Millis) error
	Touch(now clock.Millis)
	Sleep(now clock.Millis)

	Eyes() *eyes.Engine
	SetEyeMode(eyes.Mode, clock.Millis)
	SetEyeColors(l, r rgb.Color, now clock.Millis)
	SetEyeBrightness(uint8)
	SetEyeHardware(k2so.EyeHardware, clock.Millis) error

	Detail() *detail.Engine
	StatusLED() *status.Engine
	SetStatusLED(enabled bool, brightness uint8)

	Servos() *motion.Planner
	MoveServo(motion.AxisID, int, clock.Millis)
	MoveServos([motion.NumAxes]int, clock.Millis)
	CenterServos(now clock.Millis)
	CalibrateServo(motion.AxisID, motion.Range) error

	PlaySound(track int, now clock.Millis) error
	PlayRandom(folder int, now clock.Millis) error
	SetVolume(int) error

	Timing(config.TimingKind) clock.Span
	SetTiming(k config.TimingKind, min, max int) clock.Span

	Save() error
	Load(now clock.Millis) error
	SaveProfile(name string) int
	LoadProfile(slot int, now clock.Millis) (config.Profile, error)
	DeleteProfile(slot int) (config.Profile, error)
	Profiles() ([config.MaxProfiles]config.Profile, int)

	Buttons() []remote.Button
	ResetButtons()
	SetIREnabled(bool)
	IREnabled() bool
	StartLearning(count int, now clock.Millis) error
	StartScanner(now clock.Millis)
	StartMonitor(now clock.Millis)
	ExitMode()
}

var _ Controller = &droid.Droid{}

// Call is one invocation of a command
type Call struct {
	Controller Controller
	Now        clock.Millis
	Out        io.Writer
	Args       []string
}

func (c *Call) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// arg returns argument i lower cased, or "" when it is missing
func (c *Call) arg(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.ToLower(c.Args[i])
}

// intArg parses argument i and checks it is within [lo, hi]
func (c *Call) intArg(i, lo, hi int) (int, error) {
	if i >= len(c.Args) {
		return 0, fmt.Errorf("%w: missing value", ErrUsage)
	}
	v, err := strconv.Atoi(c.Args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", c.Args[i])
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %d not in %d..%d", config.ErrOutOfRange, v, lo, hi)
	}
	return v, nil
}

func (c *Call) colorArg(i int) (rgb.Color, error) {
	if i >= len(c.Args) {
		return rgb.Off, fmt.Errorf("%w: missing color", ErrUsage)
	}
	return rgb.Parse(strings.ToLower(c.Args[i]))
}

func onOff(s string) (bool, error) {
	switch s {
	case "on", "1", "true", "enable":
		return true, nil
	case "off", "0", "false", "disable":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", ErrUsage, s)
}

// Command is one console command
type Command struct {
	Name        string
	Usage       string
	Description string
	Run         func(*Call) error
}

// Interpreter assembles lines from incoming bytes and runs them
type Interpreter struct {
	controller Controller
	out        io.Writer
	commands   map[string]*Command
	line       []byte
}

// New creates an Interpreter writing replies to out
func New(c Controller, out io.Writer) *Interpreter {
	i := &Interpreter{
		controller: c,
		out:        out,
		commands:   map[string]*Command{HelpCommand.Name: HelpCommand},
	}
	for _, cmd := range commands {
		i.commands[cmd.Name] = cmd
	}
	return i
}

// Feed adds one received byte. A complete line is run at once and true is returned
func (i *Interpreter) Feed(b byte, now clock.Millis) bool {
	switch b {
	case '\r':
		return false
	case k2so.LineTerminator:
		line := string(i.line)
		i.line = i.line[:0]
		i.Exec(line, now)
		return true
	case 0x08, 0x7F:
		if len(i.line) > 0 {
			i.line = i.line[:len(i.line)-1]
		}
		return false
	}
	if len(i.line) < 256 {
		i.line = append(i.line, b)
	}
	return false
}

// Exec runs one line and writes the reply terminator
func (i *Interpreter) Exec(line string, now clock.Millis) error {
	err := i.exec(line, now)
	if err != nil {
		fmt.Fprintf(i.out, "%s %s\n", ResponseError, err.Error())
		return err
	}
	fmt.Fprintln(i.out, ResponseOK)
	return nil
}

func (i *Interpreter) exec(line string, now clock.Millis) error {
	words, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("error parsing line: %w", err)
	}
	if len(words) == 0 {
		return nil
	}

	cmd, ok := i.commands[strings.ToLower(words[0])]
	if !ok {
		return fmt.Errorf("%w: %q, type 'help'", ErrUnknownCommand, words[0])
	}

	return cmd.Run(&Call{
		Controller: i.controller,
		Now:        now,
		Out:        i.out,
		Args:       words[1:],
	})
}

var (
	StatusCommand = &Command{
		Name:        "status",
		Usage:       "status",
		Description: "Show the droid state.",
		Run: func(c *Call) error {
			c.printf("%s", c.Controller.Status(c.Now).String())
			return nil
		},
	}
	ModeCommand = &Command{
		Name:        "mode",
		Usage:       "mode [scanning|alert|idle]",
		Description: "Show or set the personality.",
		Run: func(c *Call) error {
			if len(c.Args) == 0 {
				c.printf("mode: %s\n", strings.ToLower(c.Controller.Status(c.Now).Personality.String()))
				return nil
			}
			p, ok := k2so.ParsePersonality(c.arg(0))
			if !ok {
				return fmt.Errorf("%w: %q", k2so.ErrInvalidPersonality, c.Args[0])
			}
			return c.Controller.SetPersonality(p, c.Now)
		},
	}
	SleepCommand = &Command{
		Name:        "sleep",
		Usage:       "sleep",
		Description: "Fade the eyes out and rest until the next activity.",
		Run: func(c *Call) error {
			c.Controller.Sleep(c.Now)
			return nil
		},
	}
	WakeCommand = &Command{
		Name:        "wake",
		Usage:       "wake",
		Description: "Wake the droid.",
		Run: func(c *Call) error {
			c.Controller.Touch(c.Now)
			return nil
		},
	}
	EyeCommand = &Command{
		Name:        "eye",
		Usage:       "eye <animation>|stop|hw <7|13>",
		Description: "Start an eye animation, stop animating or set the eye hardware.",
		Run: func(c *Call) error {
			switch c.arg(0) {
			case "":
				names := make([]string, 0, len(eyes.Modes()))
				for _, m := range eyes.Modes() {
					names = append(names, m.String())
				}
				c.printf("eye: %s (%s)\n", c.Controller.Eyes().Mode(), c.Controller.Eyes().Hardware())
				c.printf("animations: %s\n", strings.Join(names, " "))
				return nil
			case "stop":
				c.Controller.Eyes().StopAll()
				return nil
			case "hw", "hardware":
				v, err := c.intArg(1, 7, 13)
				if err != nil {
					return err
				}
				return c.Controller.SetEyeHardware(k2so.EyeHardware(v), c.Now)
			}

			m, ok := eyes.ParseMode(c.arg(0))
			if !ok {
				return fmt.Errorf("%w: unknown eye animation %q", ErrUsage, c.Args[0])
			}
			if m.RequiresRing() && c.Controller.Eyes().Hardware() != k2so.EyeHardware13 {
				return fmt.Errorf("%s requires 13-LED eyes", m)
			}
			c.Controller.SetEyeMode(m, c.Now)
			return nil
		},
	}
	ColorCommand = &Command{
		Name:        "color",
		Usage:       "color <name|#rrggbb> [right]",
		Description: "Show a steady eye color, optionally a different one on the right eye.",
		Run: func(c *Call) error {
			l, err := c.colorArg(0)
			if err != nil {
				return err
			}
			r := l
			if len(c.Args) > 1 {
				if r, err = c.colorArg(1); err != nil {
					return err
				}
			}
			c.Controller.SetEyeColors(l, r, c.Now)
			return nil
		},
	}
	BrightCommand = &Command{
		Name:        "bright",
		Usage:       "bright <0-255>",
		Description: "Set the eye brightness.",
		Run: func(c *Call) error {
			v, err := c.intArg(0, 0, 255)
			if err != nil {
				return err
			}
			c.Controller.SetEyeBrightness(uint8(v))
			return nil
		},
	}
	ServoCommand = &Command{
		Name:        "servo",
		Usage:       "servo [<axis> <deg>|all <ep> <et> <hp> <ht>|cal <axis> <min> <max> <center>]",
		Description: "Show servo positions, move one or all axes or calibrate a range.",
		Run: func(c *Call) error {
			p := c.Controller.Servos()
			if len(c.Args) == 0 {
				for id := motion.EyePan; id < motion.NumAxes; id++ {
					a := p.Axis(id)
					r := a.Range()
					c.printf("%-8s %3d (target %3d, range %d-%d, center %d)\n", id, a.Current(), a.Target(), r.Min, r.Max, r.Center)
				}
				c.printf("movements: %d\n", p.Movements())
				return nil
			}

			if c.arg(0) == "cal" {
				id, ok := motion.ParseAxis(c.arg(1))
				if !ok {
					return fmt.Errorf("%w: unknown axis %q", ErrUsage, c.arg(1))
				}
				var v [3]int
				for i := range v {
					n, err := c.intArg(2+i, 0, 180)
					if err != nil {
						return err
					}
					v[i] = n
				}
				return c.Controller.CalibrateServo(id, motion.Range{Min: v[0], Max: v[1], Center: v[2]})
			}

			if c.arg(0) == "all" {
				var pos [motion.NumAxes]int
				for i := range pos {
					n, err := c.intArg(1+i, 0, 180)
					if err != nil {
						return err
					}
					pos[i] = n
				}
				c.Controller.MoveServos(pos, c.Now)
				return nil
			}

			id, ok := motion.ParseAxis(c.arg(0))
			if !ok {
				return fmt.Errorf("%w: unknown axis %q", ErrUsage, c.arg(0))
			}
			pos, err := c.intArg(1, 0, 180)
			if err != nil {
				return err
			}
			c.Controller.MoveServo(id, pos, c.Now)
			return nil
		},
	}
	CenterCommand = &Command{
		Name:        "center",
		Usage:       "center",
		Description: "Center every servo.",
		Run: func(c *Call) error {
			c.Controller.CenterServos(c.Now)
			return nil
		},
	}
	DetailCommand = &Command{
		Name:        "detail",
		Usage:       detailUsage,
		Description: "Configure the detail LEDs.",
		Run:         runDetail,
	}
	LEDCommand = &Command{
		Name:        "led",
		Usage:       "led [on|off|bright <0-255>]",
		Description: "Configure the status LED.",
		Run: func(c *Call) error {
			s := c.Controller.Status(c.Now)
			enabled := c.Controller.StatusLED().Enabled()
			bright := c.Controller.StatusLED().Brightness()

			switch c.arg(0) {
			case "":
				c.printf("status led: %s, enabled %t, brightness %d\n", s.StatusLED, enabled, bright)
				return nil
			case "bright", "brightness":
				v, err := c.intArg(1, 0, 255)
				if err != nil {
					return err
				}
				c.Controller.SetStatusLED(enabled, uint8(v))
				return nil
			}
			on, err := onOff(c.arg(0))
			if err != nil {
				return err
			}
			c.Controller.SetStatusLED(on, bright)
			return nil
		},
	}
	SoundCommand = &Command{
		Name:        "sound",
		Usage:       "sound <track>|random <folder>",
		Description: "Play an effect clip or a random clip from a folder.",
		Run: func(c *Call) error {
			if c.arg(0) == "random" {
				f, err := c.intArg(1, 1, 99)
				if err != nil {
					return err
				}
				return c.Controller.PlayRandom(f, c.Now)
			}
			t, err := c.intArg(0, 1, 255)
			if err != nil {
				return err
			}
			return c.Controller.PlaySound(t, c.Now)
		},
	}
	VolumeCommand = &Command{
		Name:        "volume",
		Usage:       "volume [0-30]",
		Description: "Show or set the volume.",
		Run: func(c *Call) error {
			if len(c.Args) == 0 {
				c.printf("volume: %d\n", c.Controller.Status(c.Now).Volume)
				return nil
			}
			v, err := c.intArg(0, 0, 30)
			if err != nil {
				return err
			}
			return c.Controller.SetVolume(v)
		},
	}
	TimingCommand = &Command{
		Name:        "timing",
		Usage:       timingUsage,
		Description: "Show or set the servo and sound timing ranges in ms.",
		Run:         runTiming,
	}
	ProfileCommand = &Command{
		Name:        "profile",
		Usage:       profileUsage,
		Description: "Manage the saved profiles.",
		Run:         runProfile,
	}
	SaveCommand = &Command{
		Name:        "save",
		Usage:       "save",
		Description: "Save the configuration.",
		Run: func(c *Call) error {
			return c.Controller.Save()
		},
	}
	LoadCommand = &Command{
		Name:        "load",
		Usage:       "load",
		Description: "Load the saved configuration.",
		Run: func(c *Call) error {
			return c.Controller.Load(c.Now)
		},
	}
	DefaultCommand = &Command{
		Name:        "default",
		Usage:       "default",
		Description: "Load the codes of the stock IR remote.",
		Run: func(c *Call) error {
			c.Controller.ResetButtons()
			return nil
		},
	}
	LearnCommand = &Command{
		Name:        "learn",
		Usage:       "learn [count]",
		Description: "Learn IR codes, relearning the current buttons when no count is given.",
		Run: func(c *Call) error {
			n := 0
			if len(c.Args) > 0 {
				v, err := c.intArg(0, 1, remote.MaxButtons)
				if err != nil {
					return err
				}
				n = v
			}
			return c.Controller.StartLearning(n, c.Now)
		},
	}
	ScanCommand = &Command{
		Name:        "scan",
		Usage:       "scan",
		Description: "Print received IR codes until 'exit'.",
		Run: func(c *Call) error {
			c.Controller.StartScanner(c.Now)
			return nil
		},
	}
	ShowCommand = &Command{
		Name:        "show",
		Usage:       "show",
		Description: "List the IR buttons.",
		Run: func(c *Call) error {
			for i, b := range c.Controller.Buttons() {
				c.printf("%2d: %s\n", i, b)
			}
			return nil
		},
	}
	IRCommand = &Command{
		Name:        "ir",
		Usage:       "ir [on|off]",
		Description: "Show or toggle IR handling.",
		Run: func(c *Call) error {
			if len(c.Args) == 0 {
				c.printf("ir: %t\n", c.Controller.IREnabled())
				return nil
			}
			on, err := onOff(c.arg(0))
			if err != nil {
				return err
			}
			c.Controller.SetIREnabled(on)
			return nil
		},
	}
	MonitorCommand = &Command{
		Name:        "monitor",
		Usage:       "monitor",
		Description: "Print a status line every second until 'exit'.",
		Run: func(c *Call) error {
			c.Controller.StartMonitor(c.Now)
			return nil
		},
	}
	ExitCommand = &Command{
		Name:        "exit",
		Usage:       "exit",
		Description: "Leave learning, scanner or monitor mode.",
		Run: func(c *Call) error {
			c.Controller.ExitMode()
			return nil
		},
	}
	HelpCommand = &Command{
		Name:        "help",
		Usage:       "help",
		Description: "Show all available commands.",
		Run: func(c *Call) error {
			sorted := append([]*Command(nil), commands...)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
			c.printf("Available Commands:\n")
			c.printf("  %-40s %s\n", "help", "Show all available commands.")
			for _, cmd := range sorted {
				c.printf("  %-40s %s\n", cmd.Usage, cmd.Description)
			}
			return nil
		},
	}
)

var commands = []*Command{
	StatusCommand,
	ModeCommand,
	SleepCommand,
	WakeCommand,
	EyeCommand,
	ColorCommand,
	BrightCommand,
	ServoCommand,
	CenterCommand,
	DetailCommand,
	LEDCommand,
	SoundCommand,
	VolumeCommand,
	TimingCommand,
	ProfileCommand,
	SaveCommand,
	LoadCommand,
	DefaultCommand,
	LearnCommand,
	ScanCommand,
	ShowCommand,
	IRCommand,
	MonitorCommand,
	ExitCommand,
}
