package k2so

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonality(t *testing.T) {
	assert.Equal(t, PersonalityAlert, PersonalityScanning.Next())
	assert.Equal(t, PersonalityScanning, PersonalityIdle.Next())
	assert.Equal(t, "Unknown", Personality(5).String())

	tests := []struct {
		in   string
		want Personality
		ok   bool
	}{
		{"Scanning", PersonalityScanning, true},
		{" alert ", PersonalityAlert, true},
		{"3", PersonalityIdle, true},
		{"sleepy", PersonalityScanning, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, ok := ParsePersonality(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPersonalityText(t *testing.T) {
	b, err := PersonalityIdle.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "idle", string(b))

	var p Personality
	require.NoError(t, p.UnmarshalText([]byte("alert")))
	assert.Equal(t, PersonalityAlert, p)
	assert.ErrorIs(t, p.UnmarshalText([]byte("angry")), ErrInvalidPersonality)

	_, err = Personality(-1).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidPersonality)
}

func TestEyeHardware(t *testing.T) {
	assert.Equal(t, 7, EyeHardware7.Pixels())
	assert.Equal(t, 13, EyeHardware13.Pixels())
	assert.True(t, EyeHardware13.Valid())
	assert.False(t, EyeHardware(12).Valid())
	assert.Equal(t, "7-LED", EyeHardware7.String())
}
