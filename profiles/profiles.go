// Package profiles is a host-side library of droid profiles. The droid itself only keeps a few
// slots, so the panel stores any number of them here and pushes one to the droid on request.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/calvinmclean/k2so/audio"
	"github.com/calvinmclean/k2so/config"

	"github.com/calvinmclean/babyapi"
	"github.com/go-chi/render"
)

const (
	Name = "Profiles"
	Base = "/profiles"
)

var ErrInvalidProfile = errors.New("invalid profile")

// Profile is a stored droid profile
type Profile struct {
	babyapi.DefaultResource
	config.Profile
}

// Bind validates a profile before it is stored
func (p *Profile) Bind(r *http.Request) error {
	if err := p.DefaultResource.Bind(r); err != nil {
		return err
	}

	switch {
	case p.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidProfile)
	case len(p.Name) > config.MaxProfileName:
		return fmt.Errorf("%w: name longer than %d", ErrInvalidProfile, config.MaxProfileName)
	case !p.Personality.Valid():
		return fmt.Errorf("%w: unknown personality", ErrInvalidProfile)
	case p.Volume < 0 || p.Volume > audio.MaxVolume:
		return fmt.Errorf("%w: volume %d not in 0..%d", ErrInvalidProfile, p.Volume, audio.MaxVolume)
	}
	return nil
}

// Lines are the console commands that put p on the droid. Servo centers and personality
// colors are calibration and stay on the droid
func Lines(p config.Profile) []string {
	lines := []string{
		"mode " + strings.ToLower(p.Personality.String()),
		fmt.Sprintf("bright %d", p.EyeBrightness),
		fmt.Sprintf("volume %d", p.Volume),
	}

	c := config.Default()
	c.Timing = p.Timing
	c.SoundPause = p.SoundPause
	for _, k := range []config.TimingKind{config.ScanMove, config.ScanWait, config.AlertMove, config.AlertWait, config.SoundPause} {
		s := c.Span(k)
		lines = append(lines, fmt.Sprintf("timing %s %d %d", k, s.Min, s.Max))
	}
	return lines
}

// ApplyFunc pushes a profile to the droid
type ApplyFunc func(ctx context.Context, p config.Profile) error

// NewAPI creates the profile resource API. POST /profiles/{id}/apply calls apply
func NewAPI(apply ApplyFunc) *babyapi.API[*Profile] {
	api := babyapi.NewAPI(Name, Base, func() *Profile { return &Profile{} })

	api.AddCustomIDRoute(http.MethodPost, "/apply", api.GetRequestedResourceAndDo(func(_ http.ResponseWriter, r *http.Request, p *Profile) (render.Renderer, *babyapi.ErrResponse) {
		if err := apply(r.Context(), p.Profile); err != nil {
			return nil, &babyapi.ErrResponse{
				Err:            err,
				HTTPStatusCode: http.StatusBadGateway,
				StatusText:     http.StatusText(http.StatusBadGateway),
				ErrorText:      err.Error(),
			}
		}
		return nil, nil
	}))

	return api
}
