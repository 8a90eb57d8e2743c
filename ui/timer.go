package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/calvinmclean/k2so/droid"
)

// PollInterval is how often the window refreshes the droid status
const PollInterval = time.Second

// poller fetches the status on a ticker and hands it to onStatus on the UI goroutine
type poller struct {
	droid    Droid
	uptime   *canvas.Text
	onStatus func(droid.Status)
	onError  func(error)
}

func newPoller(d Droid, onStatus func(droid.Status), onError func(error)) *poller {
	return &poller{
		droid:    d,
		uptime:   canvas.NewText("00:00:00", nil),
		onStatus: onStatus,
		onError:  onError,
	}
}

func (p *poller) Go(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			s, err := p.droid.Status(ctx)
			fyne.Do(func() {
				if err != nil {
					p.onError(err)
					return
				}
				p.uptime.Text = formatUptime(s.Uptime)
				p.uptime.Refresh()
				p.onStatus(s)
			})
		}
	}()
}

func formatUptime(seconds uint32) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
