// Package remote maps NEC IR codes from a cheap 17 button remote onto droid actions and learns
// new remotes one button at a time.
package remote

import (
	"fmt"
	"strings"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/rgb"
)

const (
	MaxButtons = 21
	// LearnTimeout ends learning when no code arrives for this long
	LearnTimeout clock.Millis = 30000
)

// StandardNames are the buttons of the stock remote, in learning order
var StandardNames = [17]string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"*", "#", "UP", "DOWN", "LEFT", "RIGHT", "OK",
}

// DefaultCodes are the NEC codes of the stock remote, indexed like StandardNames
var DefaultCodes = [17]uint32{
	0xE619FF00, 0xBA45FF00, 0xB946FF00, 0xB847FF00, 0xBB44FF00,
	0xBF40FF00, 0xBC43FF00, 0xF807FF00, 0xEA15FF00, 0xF609FF00,
	0xE916FF00, 0xF20DFF00, 0xE718FF00, 0xAD52FF00, 0xF708FF00,
	0xA55AFF00, 0xE31CFF00,
}

// Button binds a name to a received code
type Button struct {
	Name       string `yaml:"name" toml:"name" json:"name"`
	Code       uint32 `yaml:"code" toml:"code" json:"code"`
	Configured bool   `yaml:"configured" toml:"configured" json:"configured"`
}

func (b Button) String() string {
	if !b.Configured {
		return b.Name + " = [not set]"
	}
	return fmt.Sprintf("%s = 0x%08X", b.Name, b.Code)
}

// DefaultButtons returns the stock remote
func DefaultButtons() []Button {
	buttons := make([]Button, len(StandardNames))
	for i, name := range StandardNames {
		buttons[i] = Button{Name: name, Code: DefaultCodes[i], Configured: true}
	}
	return buttons
}

// ButtonName names button i of a learned remote
func ButtonName(i int) string {
	if i < len(StandardNames) {
		return StandardNames[i]
	}
	return fmt.Sprintf("BTN%d", i+1)
}

// Lookup returns the configured button for code
func Lookup(buttons []Button, code uint32) (Button, bool) {
	for _, b := range buttons {
		if b.Configured && b.Code == code {
			return b, true
		}
	}
	return Button{}, false
}

// Kind is what a button does
type Kind int

const (
	KindNone Kind = iota
	KindLook
	KindCenter
	KindPersonality
	KindSound
	KindColorNext
	KindColorPrev
	KindToggleEyes
)

// Direction of a look action
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Action is a decoded button press
type Action struct {
	Kind        Kind
	Direction   Direction
	Personality k2so.Personality
	Folder      int
}

// ActionFor returns what the named button does. Unknown names give KindNone
func ActionFor(name string) Action {
	switch strings.ToUpper(name) {
	case "UP":
		return Action{Kind: KindLook, Direction: Up}
	case "DOWN":
		return Action{Kind: KindLook, Direction: Down}
	case "LEFT":
		return Action{Kind: KindLook, Direction: Left}
	case "RIGHT":
		return Action{Kind: KindLook, Direction: Right}
	case "OK":
		return Action{Kind: KindCenter}
	case "1":
		return Action{Kind: KindPersonality, Personality: k2so.PersonalityScanning}
	case "2":
		return Action{Kind: KindPersonality, Personality: k2so.PersonalityAlert}
	case "3":
		return Action{Kind: KindPersonality, Personality: k2so.PersonalityIdle}
	case "4":
		return Action{Kind: KindSound, Folder: 1}
	case "5":
		return Action{Kind: KindSound, Folder: 2}
	case "6":
		return Action{Kind: KindSound, Folder: 4}
	case "*":
		return Action{Kind: KindColorNext}
	case "#":
		return Action{Kind: KindColorPrev}
	case "0":
		return Action{Kind: KindToggleEyes}
	}
	return Action{Kind: KindNone}
}

// Palette is the color cycle of the star and hash buttons
var Palette = [6]rgb.Color{
	rgb.Pack(80, 150, 255),
	rgb.Pack(255, 0, 0),
	rgb.Pack(0, 255, 0),
	rgb.Pack(255, 255, 0),
	rgb.Pack(255, 0, 255),
	rgb.Pack(255, 255, 255),
}

// Cycle walks Palette in either direction
type Cycle struct {
	index int
}

// Next steps forward and returns the new color
func (c *Cycle) Next() rgb.Color {
	c.index = (c.index + 1) % len(Palette)
	return Palette[c.index]
}

// Prev steps backward and returns the new color
func (c *Cycle) Prev() rgb.Color {
	c.index = (c.index - 1 + len(Palette)) % len(Palette)
	return Palette[c.index]
}

// Index is the position in Palette
func (c *Cycle) Index() int {
	return c.index
}
