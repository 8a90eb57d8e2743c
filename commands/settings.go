package commands

import (
	"fmt"
	"strings"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/detail"
)

const (
	detailUsage  = "detail [on|off|count <1-8>|pattern <name>|color <c>|bright <0-255>|auto <on|off>|preset <mode>]"
	timingUsage  = "timing [<scan|alert> <move|wait> <min> <max>|sound <min> <max>]"
	profileUsage = "profile [list|save <name>|load <slot>|delete <slot>]"
)

func runDetail(c *Call) error {
	d := c.Controller.Detail()

	switch c.arg(0) {
	case "":
		s := d.State()
		c.printf("detail: %s, %d leds, color %s, brightness %d, enabled %t, auto color %t\n",
			s.Pattern, s.Count, s.Color, s.Brightness, s.Enabled, s.AutoColor)
		return nil
	case "on", "off":
		on, _ := onOff(c.arg(0))
		d.SetEnabled(on, c.Now)
		return nil
	case "count":
		n, err := c.intArg(1, 1, detail.MaxLEDs)
		if err != nil {
			return err
		}
		return d.SetCount(n)
	case "pattern":
		p, err := detail.ParsePattern(c.arg(1))
		if err != nil {
			return err
		}
		return d.SetPattern(p, c.Now)
	case "color":
		col, err := c.colorArg(1)
		if err != nil {
			return err
		}
		d.SetColor(col)
		return nil
	case "bright", "brightness":
		v, err := c.intArg(1, 0, 255)
		if err != nil {
			return err
		}
		d.SetBrightness(uint8(v))
		return nil
	case "auto":
		on, err := onOff(c.arg(1))
		if err != nil {
			return err
		}
		d.SetAutoColor(on)
		d.ApplyPersonality(c.Controller.Status(c.Now).Personality)
		return nil
	case "preset":
		p, ok := k2so.ParsePersonality(c.arg(1))
		if !ok {
			return fmt.Errorf("%w: %q", k2so.ErrInvalidPersonality, c.arg(1))
		}
		d.Preset(p, c.Now)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUsage, detailUsage)
}

func runTiming(c *Call) error {
	if len(c.Args) == 0 {
		for _, k := range []config.TimingKind{config.ScanMove, config.ScanWait, config.AlertMove, config.AlertWait, config.SoundPause} {
			s := c.Controller.Timing(k)
			c.printf("%-11s %d-%d ms\n", k, s.Min, s.Max)
		}
		return nil
	}

	// the kind is every word before the two numbers: "scan move 20 40", "sound 8000 20000"
	if len(c.Args) < 3 {
		return fmt.Errorf("%w: %s", ErrUsage, timingUsage)
	}
	n := len(c.Args)
	k, ok := config.ParseTimingKind(strings.Join(c.Args[:n-2], " "))
	if !ok {
		return fmt.Errorf("%w: unknown timing %q", ErrUsage, strings.Join(c.Args[:n-2], " "))
	}
	min, err := c.intArg(n-2, 0, 1<<30)
	if err != nil {
		return err
	}
	max, err := c.intArg(n-1, 0, 1<<30)
	if err != nil {
		return err
	}

	s := c.Controller.SetTiming(k, min, max)
	c.printf("%s set to %d-%d ms\n", k, s.Min, s.Max)
	return nil
}

func runProfile(c *Call) error {
	switch c.arg(0) {
	case "", "list":
		profiles, current := c.Controller.Profiles()
		for i, p := range profiles {
			if !p.Active {
				c.printf("%d: [empty]\n", i)
				continue
			}
			mark := ""
			if i == current {
				mark = " *"
			}
			c.printf("%d: %s (%s, volume %d)%s\n", i, p.Name, strings.ToLower(p.Personality.String()), p.Volume, mark)
		}
		return nil
	case "save":
		if len(c.Args) < 2 {
			return fmt.Errorf("%w: profile save <name>", ErrUsage)
		}
		slot := c.Controller.SaveProfile(strings.Join(c.Args[1:], " "))
		c.printf("saved to slot %d\n", slot)
		return nil
	case "load":
		slot, err := c.intArg(1, 0, config.MaxProfiles-1)
		if err != nil {
			return err
		}
		p, err := c.Controller.LoadProfile(slot, c.Now)
		if err != nil {
			return err
		}
		c.printf("loaded %s\n", p.Name)
		return nil
	case "delete":
		slot, err := c.intArg(1, 0, config.MaxProfiles-1)
		if err != nil {
			return err
		}
		p, err := c.Controller.DeleteProfile(slot)
		if err != nil {
			return err
		}
		c.printf("deleted %s\n", p.Name)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUsage, profileUsage)
}
