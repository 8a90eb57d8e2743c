// Package panel serves the HTTP control panel. Every route turns its query into console lines
// and sends them to the droid, so the same panel works over USB serial and in the simulator.
package panel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/calvinmclean/k2so/audio"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/controller"
	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/eyes"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/profiles"
	"github.com/calvinmclean/k2so/rgb"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// Droid is the console connection the panel drives. *controller.Controller implements it
type Droid interface {
	Send(ctx context.Context, line string) ([]string, error)
	Status(ctx context.Context) (droid.Status, error)
}

var _ Droid = &controller.Controller{}

// servoParams are the query names of the original web panel
var servoParams = [motion.NumAxes]string{"eyePan", "eyeTilt", "headPan", "headTilt"}

// Server is the control panel
type Server struct {
	droid Droid
	log   *zap.SugaredLogger
}

func New(d Droid, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{droid: d, log: log}
}

// Router has the panel routes plus the profile API under /profiles
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/status", s.status)
	r.Post("/mode", s.mode)
	r.Post("/color", s.color)
	r.Post("/color/{name}", s.color)
	r.Post("/brightness", s.brightness)
	r.Post("/eyes/{animation}", s.eyes)
	r.Post("/servo", s.servo)
	r.Post("/volume", s.volume)
	r.Post("/play", s.play)
	r.Post("/detail", s.detail)

	r.Mount("/", profiles.NewAPI(s.applyProfile).Router())

	return r
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	st, err := s.droid.Status(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, st)
}

func (s *Server) mode(w http.ResponseWriter, r *http.Request) {
	m := r.URL.Query().Get("mode")
	if m == "" {
		s.badRequest(w, r, "Missing mode parameter")
		return
	}
	s.send(w, r, "mode "+m)
}

func (s *Server) color(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "name")
	if value == "" {
		value = r.URL.Query().Get("value")
	}
	left, err := rgb.Parse(strings.ToLower(value))
	if err != nil {
		s.badRequest(w, r, err.Error())
		return
	}

	line := "color '" + left.String() + "'"
	if rv := r.URL.Query().Get("right"); rv != "" {
		right, err := rgb.Parse(strings.ToLower(rv))
		if err != nil {
			s.badRequest(w, r, err.Error())
			return
		}
		line += " '" + right.String() + "'"
	}
	s.send(w, r, line)
}

func (s *Server) brightness(w http.ResponseWriter, r *http.Request) {
	v, ok := s.intParam(w, r, "value", 0, 255)
	if !ok {
		return
	}
	s.send(w, r, fmt.Sprintf("bright %d", v))
}

func (s *Server) eyes(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "animation")
	if name == "stop" {
		s.send(w, r, "eye stop")
		return
	}
	m, ok := eyes.ParseMode(name)
	if !ok {
		s.badRequest(w, r, "Unknown animation "+strconv.Quote(name))
		return
	}
	s.send(w, r, "eye "+m.String())
}

func (s *Server) servo(w http.ResponseWriter, r *http.Request) {
	line := "servo all"
	for _, p := range servoParams {
		if !r.URL.Query().Has(p) {
			s.badRequest(w, r, "Missing parameters")
			return
		}
		v, ok := s.intParam(w, r, p, 0, 180)
		if !ok {
			return
		}
		line += " " + strconv.Itoa(v)
	}
	s.send(w, r, line)
}

func (s *Server) volume(w http.ResponseWriter, r *http.Request) {
	v, ok := s.intParam(w, r, "value", 0, audio.MaxVolume)
	if !ok {
		return
	}
	s.send(w, r, fmt.Sprintf("volume %d", v))
}

func (s *Server) play(w http.ResponseWriter, r *http.Request) {
	v, ok := s.intParam(w, r, "file", 1, audio.MaxTrack)
	if !ok {
		return
	}
	s.send(w, r, fmt.Sprintf("sound %d", v))
}

// detail accepts any of enabled, count, pattern, color, brightness and auto
func (s *Server) detail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var lines []string
	for _, p := range []struct{ param, command string }{
		{"count", "count"},
		{"pattern", "pattern"},
		{"color", "color"},
		{"brightness", "bright"},
		{"auto", "auto"},
	} {
		if v := q.Get(p.param); v != "" {
			lines = append(lines, fmt.Sprintf("detail %s '%s'", p.command, strings.ReplaceAll(v, "'", "")))
		}
	}
	if v := q.Get("enabled"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			s.badRequest(w, r, "Invalid enabled parameter")
			return
		}
		if on {
			lines = append(lines, "detail on")
		} else {
			lines = append(lines, "detail off")
		}
	}
	if len(lines) == 0 {
		s.badRequest(w, r, "Missing parameters")
		return
	}
	s.send(w, r, lines...)
}

func (s *Server) applyProfile(ctx context.Context, p config.Profile) error {
	for _, line := range profiles.Lines(p) {
		if _, err := s.droid.Send(ctx, line); err != nil {
			return fmt.Errorf("error applying profile %q: %w", p.Name, err)
		}
	}
	s.log.Infow("applied profile", "name", p.Name)
	return nil
}

// send runs lines in order and stops at the first failure
func (s *Server) send(w http.ResponseWriter, r *http.Request, lines ...string) {
	var reply []string
	for _, line := range lines {
		out, err := s.droid.Send(r.Context(), line)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		reply = append(reply, out...)
	}
	render.JSON(w, r, response{Status: "OK", Output: reply})
}

func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		s.badRequest(w, r, "Missing "+name+" parameter")
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		s.badRequest(w, r, fmt.Sprintf("%s must be %d..%d", name, lo, hi))
		return 0, false
	}
	return v, true
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response{Status: "ERR", Error: msg})
}

// fail maps a rejected command to 400 and a broken link to 502
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, controller.ErrCommand) {
		status = http.StatusBadRequest
	} else {
		s.log.Errorw("droid request failed", "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, response{Status: "ERR", Error: err.Error()})
}

type response struct {
	Status string   `json:"status"`
	Output []string `json:"output,omitempty"`
	Error  string   `json:"error,omitempty"`
}
