//go:build tinygo

package device

import (
	"errors"
	"machine"
	"time"

	"github.com/calvinmclean/k2so/audio"
)

const (
	dfStart   = 0x7E
	dfVersion = 0xFF
	dfLength  = 0x06
	dfEnd     = 0xEF

	dfCmdVolume      = 0x06
	dfCmdReset       = 0x0C
	dfCmdFolderTrack = 0x0F

	// BUSY takes a moment to drop after a play command
	busySettle = 300 * time.Millisecond
)

// DefaultTracks is the clip count per folder on the stock SD card
var DefaultTracks = map[int]int{
	audio.FolderScanning: 10,
	audio.FolderAlert:    10,
	audio.FolderVoice:    5,
	audio.FolderEffects:  10,
}

// Player drives a DFPlayer Mini. Commands are fire and forget, replies are never read
type Player struct {
	uart    *machine.UART
	busy    machine.Pin
	tracks  map[int]int
	started time.Time
	frame   [10]byte
}

var _ audio.Player = &Player{}

func NewPlayer(cfg PlayerConfig) (*Player, error) {
	err := cfg.UART.Configure(machine.UARTConfig{BaudRate: 9600, TX: cfg.TX, RX: cfg.RX})
	if err != nil {
		return nil, errors.New("error configuring uart: " + err.Error())
	}
	cfg.Busy.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	tracks := cfg.Tracks
	if tracks == nil {
		tracks = DefaultTracks
	}

	p := &Player{uart: cfg.UART, busy: cfg.Busy, tracks: tracks}
	if err := p.send(dfCmdReset, 0); err != nil {
		return nil, errors.New("error resetting player: " + err.Error())
	}
	return p, nil
}

func (p *Player) Ready() bool {
	return p.uart != nil
}

func (p *Player) Playing() bool {
	return time.Since(p.started) < busySettle || !p.busy.Get()
}

func (p *Player) PlayFolderTrack(folder, track int) error {
	p.started = time.Now()
	return p.send(dfCmdFolderTrack, uint16(folder)<<8|uint16(track))
}

func (p *Player) TrackCount(folder int) int {
	return p.tracks[folder]
}

func (p *Player) SetVolume(v int) error {
	return p.send(dfCmdVolume, uint16(v))
}

func (p *Player) send(cmd byte, param uint16) error {
	f := &p.frame
	f[0] = dfStart
	f[1] = dfVersion
	f[2] = dfLength
	f[3] = cmd
	f[4] = 0 // no feedback
	f[5] = byte(param >> 8)
	f[6] = byte(param)

	var sum uint16
	for _, b := range f[1:7] {
		sum += uint16(b)
	}
	chk := -sum
	f[7] = byte(chk >> 8)
	f[8] = byte(chk)
	f[9] = dfEnd

	_, err := p.uart.Write(f[:])
	return err
}
