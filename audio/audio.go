// Package audio schedules the droid's random chatter. Playback itself happens behind Player, which
// is a DFPlayer Mini on the droid and a synthesizer in the simulator.
package audio

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
)

const (
	MaxVolume     = 30
	DefaultVolume = 20

	FolderScanning = 1
	FolderAlert    = 2
	FolderVoice    = 3
	// FolderEffects holds the numbered clips played with Play
	FolderEffects = 4

	// BootTrack is played from FolderEffects during the boot sequence
	BootTrack = 3

	MaxTrack = 255
)

var (
	ErrNotReady      = errors.New("audio system not ready")
	ErrInvalidVolume = errors.New("invalid volume level")
	ErrInvalidTrack  = errors.New("invalid file number")
	ErrNoTracks      = errors.New("no tracks found")
)

// DefaultPause is the wait between random clips
var DefaultPause = clock.Span{Min: 8000, Max: 20000}

// Player plays numbered tracks from numbered folders
type Player interface {
	Ready() bool
	Playing() bool
	PlayFolderTrack(folder, track int) error
	TrackCount(folder int) int
	SetVolume(v int) error
}

// FolderFor returns the random chatter folder for a personality. Idle droids are silent
func FolderFor(p k2so.Personality) (int, bool) {
	switch p {
	case k2so.PersonalityScanning:
		return FolderScanning, true
	case k2so.PersonalityAlert:
		return FolderAlert, true
	}
	return 0, false
}

// Scheduler plays a random clip from the personality folder after a random pause
type Scheduler struct {
	player Player
	log    k2so.Logger
	rand   *rand.Rand

	pause  clock.Span
	volume int

	playing bool
	waiting bool
	last    clock.Millis
	wait    clock.Millis

	plays uint32

	// OnPlay is called after every successful play
	OnPlay func(folder, track int)
}

// NewScheduler creates a Scheduler. Nothing plays until Start
func NewScheduler(p Player, pause clock.Span, log k2so.Logger, r *rand.Rand) *Scheduler {
	if log == nil {
		log = k2so.NopLogger{}
	}
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	return &Scheduler{
		player: p,
		log:    log,
		rand:   r,
		pause:  pause,
		volume: DefaultVolume,
	}
}

// Ready reports whether the player is usable
func (s *Scheduler) Ready() bool {
	return s.player != nil && s.player.Ready()
}

// Volume is the last accepted volume
func (s *Scheduler) Volume() int {
	return s.volume
}

// Plays counts clips started
func (s *Scheduler) Plays() uint32 {
	return s.plays
}

// Pause returns the wait range between clips
func (s *Scheduler) Pause() clock.Span {
	return s.pause
}

// SetPause changes the wait range, taking effect on the next wait
func (s *Scheduler) SetPause(p clock.Span) {
	s.pause = p
}

// Start schedules the first clip one pause from now
func (s *Scheduler) Start(now clock.Millis) {
	s.waiting = true
	s.last = now
	s.wait = s.pause.Draw(s.rand)
}

// Stop cancels the pending clip
func (s *Scheduler) Stop() {
	s.waiting = false
}

// SetVolume accepts 0..MaxVolume. The value is kept even when the player is not ready
func (s *Scheduler) SetVolume(v int) error {
	if v < 0 || v > MaxVolume {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, v)
	}
	s.volume = v
	if !s.Ready() {
		s.log.Warn("audio system not ready, volume setting saved")
		return nil
	}
	return s.player.SetVolume(v)
}

// Play plays a numbered clip from FolderEffects
func (s *Scheduler) Play(track int, now clock.Millis) error {
	if track < 1 || track > MaxTrack {
		return fmt.Errorf("%w: %d", ErrInvalidTrack, track)
	}
	return s.play(FolderEffects, track, now)
}

// PlayRandom plays a random track from folder
func (s *Scheduler) PlayRandom(folder int, now clock.Millis) error {
	if !s.Ready() {
		return ErrNotReady
	}
	n := s.player.TrackCount(folder)
	if n <= 0 {
		return fmt.Errorf("%w in folder %d", ErrNoTracks, folder)
	}
	return s.play(folder, 1+s.rand.Intn(n), now)
}

func (s *Scheduler) play(folder, track int, now clock.Millis) error {
	if !s.Ready() {
		return ErrNotReady
	}
	if err := s.player.PlayFolderTrack(folder, track); err != nil {
		return fmt.Errorf("error playing folder %d track %d: %w", folder, track, err)
	}
	s.playing = true
	s.last = now
	s.plays++
	s.log.Info("playing folder", folder, "track", track)
	if s.OnPlay != nil {
		s.OnPlay(folder, track)
	}
	return nil
}

// Update notices finished clips and starts the next one when the pause is over. It returns true
// when a clip was started
func (s *Scheduler) Update(now clock.Millis, awake bool, p k2so.Personality) bool {
	if !awake || !s.Ready() {
		return false
	}

	if s.playing {
		if s.player.Playing() {
			return false
		}
		s.playing = false
		s.Start(now)
	}

	if !s.waiting || !clock.Due(now, s.last, s.wait) {
		return false
	}

	folder, ok := FolderFor(p)
	if !ok {
		return false
	}
	s.waiting = false
	if err := s.PlayRandom(folder, now); err != nil {
		s.log.Warn(err.Error())
		s.Start(now)
		return false
	}
	return true
}
