package panel

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/controller"
	"github.com/calvinmclean/k2so/detail"
	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/eyes"
	"github.com/calvinmclean/k2so/led"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/profiles"
	"github.com/calvinmclean/k2so/rgb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPanel(t *testing.T) (http.Handler, *controller.Loopback) {
	t.Helper()

	d, err := droid.New(config.Default(), droid.Hardware{
		LeftEye:  led.NewBuffer(13, nil),
		RightEye: led.NewBuffer(13, nil),
		Detail:   led.NewBuffer(8, nil),
		Status:   led.NewBuffer(1, nil),
	}, nil, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	clk := clock.NewManual(0)
	l := controller.NewLoopback(d, clk)
	c := controller.NewConn(l, nil)
	t.Cleanup(func() { c.Close() })

	l.Do(func(d *droid.Droid, now clock.Millis) { d.Start(now) })
	for clk.Now() < 2000 {
		clk.Advance(10)
		l.Update()
	}

	return New(c, nil).Router(), l
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		code   int
		check  func(*testing.T, *droid.Droid)
	}{
		{
			name:   "Mode",
			target: "/mode?mode=alert",
			code:   http.StatusOK,
			check: func(t *testing.T, d *droid.Droid) {
				assert.Equal(t, k2so.PersonalityAlert, d.Personality())
			},
		},
		{"ModeMissing", http.MethodPost, "/mode", http.StatusBadRequest, nil},
		{"ModeInvalid", http.MethodPost, "/mode?mode=angry", http.StatusBadRequest, nil},
		{
			name:   "ColorByName",
			target: "/color/green",
			code:   http.StatusOK,
			check: func(t *testing.T, d *droid.Droid) {
				assert.Equal(t, [2]rgb.Color{rgb.Pack(0, 255, 0), rgb.Pack(0, 255, 0)}, d.Eyes().State().Shown)
			},
		},
		{
			name:   "ColorSplit",
			target: "/color?value=%23ff0000&right=blue",
			code:   http.StatusOK,
			check: func(t *testing.T, d *droid.Droid) {
				assert.Equal(t, [2]rgb.Color{rgb.Pack(255, 0, 0), rgb.Pack(0, 0, 255)}, d.Eyes().State().Shown)
			},
		},
		{"ColorInvalid", http.MethodPost, "/color?value=plaid", http.StatusBadRequest, nil},
		{
			name:   "Brightness",
			target: "/brightness?value=40",
			code:   http.StatusOK,
			check: func(t *testing.T, d *droid.Droid) {
				assert.Equal(t, uint8(40), d.Eyes().State().Brightness)
			},
		},
		{"BrightnessTooHigh", http.MethodPost, "/brightness?value=400", http.StatusBadRequest, nil},
		{
			name:   "Animation",
			target: "/eyes/flicker",
			code:   http.StatusOK,
			check: func(t *testing.T, d *droid.Droid) {
				assert.Equal(t, eyes.ModeFlicker, d.Eyes().Mode())
			},
		},
		{"AnimationUnknown", http.MethodPost, "/eyes/disco", http.StatusBadRequest, nil},
		{
			name:   "Servo",
			target: "/servo?eyePan=70&eyeTilt=110&headPan=10&headTilt=170",
			code:   http.StatusOK,
			check: func(t *testing.T, d *droid.Droid) {
				assert.Equal(t, 70, d.Servos().Axis(motion.EyePan).Current())
				assert.Equal(t, 170, d.Servos().Axis(motion.HeadTilt).Current())
			},
		},
		{"ServoMissing", http.MethodPost, "/servo?eyePan=70", http.StatusBadRequest, nil},
		{
			name:   "Volume",
			target: "/volume?value=3",
			code:   http.StatusOK,
			check: func(t *testing.T, d *droid.Droid) {
				assert.Equal(t, 3, d.Audio().Volume())
			},
		},
		{"PlayWithoutPlayer", http.MethodPost, "/play?file=2", http.StatusBadRequest, nil},
		{
			name:   "Detail",
			target: "/detail?count=4&pattern=pulse&enabled=false",
			code:   http.StatusOK,
			check: func(t *testing.T, d *droid.Droid) {
				s := d.Detail().State()
				assert.Equal(t, 4, s.Count)
				assert.Equal(t, detail.PatternPulse, s.Pattern)
				assert.False(t, s.Enabled)
			},
		},
		{"DetailEmpty", http.MethodPost, "/detail", http.StatusBadRequest, nil},
		{"WrongMethod", http.MethodGet, "/mode?mode=idle", http.StatusMethodNotAllowed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, l := newPanel(t)
			method := tt.method
			if method == "" {
				method = http.MethodPost
			}

			w := do(h, method, tt.target)
			assert.Equal(t, tt.code, w.Code, w.Body.String())

			if tt.check != nil {
				l.Do(func(d *droid.Droid, _ clock.Millis) {
					tt.check(t, d)
				})
			}
		})
	}
}

func TestStatus(t *testing.T) {
	h, _ := newPanel(t)

	w := do(h, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, w.Code)

	var s droid.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, k2so.PersonalityScanning, s.Personality)
	assert.True(t, s.BootComplete)
}

func TestApplyProfile(t *testing.T) {
	h, l := newPanel(t)
	server := httptest.NewServer(h)
	defer server.Close()

	p := config.Default().Snapshot("quiet")
	p.Personality = k2so.PersonalityIdle
	p.Volume = 4

	client := profiles.NewClient(server.URL)
	ctx := t.Context()

	id, err := client.Create(ctx, p)
	require.NoError(t, err)
	require.NoError(t, client.Apply(ctx, id))

	l.Do(func(d *droid.Droid, _ clock.Millis) {
		assert.Equal(t, k2so.PersonalityIdle, d.Personality())
		assert.Equal(t, 4, d.Audio().Volume())
	})
}
