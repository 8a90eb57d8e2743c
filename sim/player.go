package sim

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/calvinmclean/k2so/audio"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// tracks is the clip count per folder, matching the stock SD card
var tracks = map[int]int{
	audio.FolderScanning: 10,
	audio.FolderAlert:    10,
	audio.FolderVoice:    5,
	audio.FolderEffects:  10,
}

// Player synthesizes a burst of droid chirps for each clip instead of reading an SD card. The
// same folder and track always give the same chirps
type Player struct {
	mtx     sync.Mutex
	ready   bool
	volume  int
	playing atomic.Bool
}

var _ audio.Player = &Player{}

// NewPlayer opens the speaker. When that fails the player reports not ready and the droid
// carries on silently
func NewPlayer() (*Player, error) {
	p := &Player{volume: audio.DefaultVolume}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return p, err
	}
	p.ready = true
	return p, nil
}

func (p *Player) Ready() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.ready
}

func (p *Player) Playing() bool {
	return p.playing.Load()
}

func (p *Player) PlayFolderTrack(folder, track int) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if !p.ready {
		return audio.ErrNotReady
	}

	clip, err := Clip(folder, track, p.volume)
	if err != nil {
		return err
	}

	p.playing.Store(true)
	speaker.Clear()
	speaker.Play(beep.Seq(clip, beep.Callback(func() {
		p.playing.Store(false)
	})))
	return nil
}

func (p *Player) TrackCount(folder int) int {
	return tracks[folder]
}

func (p *Player) SetVolume(v int) error {
	if v < 0 || v > audio.MaxVolume {
		return audio.ErrInvalidVolume
	}
	p.mtx.Lock()
	p.volume = v
	p.mtx.Unlock()
	return nil
}

// Close stops playback and releases the speaker
func (p *Player) Close() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.ready {
		speaker.Clear()
		speaker.Close()
		p.ready = false
	}
}

// Clip builds the chirps for one track. Alert clips are higher and quicker
func Clip(folder, track, volume int) (beep.Streamer, error) {
	r := rand.New(rand.NewSource(int64(folder)<<8 | int64(track)))

	lo, hi := 300.0, 1400.0
	noteMin, noteMax := 60, 160
	if folder == audio.FolderAlert {
		lo, hi = 800, 2200
		noteMin, noteMax = 30, 80
	}

	n := 3 + r.Intn(6)
	notes := make([]beep.Streamer, 0, 2*n)
	for range n {
		tone, err := generators.SineTone(sampleRate, lo+r.Float64()*(hi-lo))
		if err != nil {
			return nil, err
		}
		d := time.Duration(noteMin+r.Intn(noteMax-noteMin)) * time.Millisecond
		notes = append(notes,
			beep.Take(sampleRate.N(d), tone),
			beep.Silence(sampleRate.N(time.Duration(10+r.Intn(40))*time.Millisecond)),
		)
	}

	return withVolume(beep.Seq(notes...), float64(volume)/audio.MaxVolume), nil
}

// withVolume scales linearly; log2 of zero is -Inf so zero is silent instead
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
