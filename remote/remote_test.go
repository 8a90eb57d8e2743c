package remote

import (
	"testing"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/rgb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultButtons(t *testing.T) {
	buttons := DefaultButtons()
	require.Len(t, buttons, 17)

	b, ok := Lookup(buttons, 0xE31CFF00)
	require.True(t, ok)
	assert.Equal(t, "OK", b.Name)
	assert.Equal(t, "OK = 0xE31CFF00", b.String())

	_, ok = Lookup(buttons, 0x12345678)
	assert.False(t, ok)

	buttons[0].Configured = false
	_, ok = Lookup(buttons, 0xE619FF00)
	assert.False(t, ok, "unconfigured buttons never match")
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		name string
		want Action
	}{
		{"UP", Action{Kind: KindLook, Direction: Up}},
		{"right", Action{Kind: KindLook, Direction: Right}},
		{"OK", Action{Kind: KindCenter}},
		{"2", Action{Kind: KindPersonality, Personality: k2so.PersonalityAlert}},
		{"6", Action{Kind: KindSound, Folder: 4}},
		{"#", Action{Kind: KindColorPrev}},
		{"0", Action{Kind: KindToggleEyes}},
		{"BTN18", Action{Kind: KindNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionFor(tt.name))
		})
	}
}

func TestCycle(t *testing.T) {
	var c Cycle
	assert.Equal(t, rgb.Pack(255, 0, 0), c.Next())
	assert.Equal(t, Palette[0], c.Prev())
	assert.Equal(t, rgb.White, c.Prev(), "wraps backward")
	assert.Equal(t, 5, c.Index())
	assert.Equal(t, Palette[0], c.Next(), "wraps forward")
}

func TestLearner(t *testing.T) {
	var l Learner
	assert.ErrorIs(t, l.Start(nil, 0, 0), ErrButtonCount)
	assert.ErrorIs(t, l.Start(nil, 22, 0), ErrButtonCount)

	require.NoError(t, l.Start(nil, 19, 100))
	assert.True(t, l.Active())
	assert.Equal(t, "0", l.Prompt())

	for i := 0; i < 18; i++ {
		assert.False(t, l.Feed(uint32(i+1), 200))
	}
	assert.Equal(t, "BTN19", l.Prompt())
	done, total := l.Progress()
	assert.Equal(t, 18, done)
	assert.Equal(t, 19, total)

	assert.True(t, l.Feed(0xAB, 300))
	assert.False(t, l.Active())
	assert.Equal(t, "", l.Prompt())

	b, ok := Lookup(l.Buttons(), 0xAB)
	require.True(t, ok)
	assert.Equal(t, "BTN19", b.Name)
	assert.False(t, l.Feed(1, 400), "ignored when not learning")
}

func TestLearnerRelearnsExisting(t *testing.T) {
	var l Learner
	existing := DefaultButtons()
	require.NoError(t, l.Start(existing, 0, 0))
	l.Feed(0x1, 10)
	assert.Equal(t, uint32(0xE619FF00), existing[0].Code, "input table is not modified")
	assert.Equal(t, uint32(0x1), l.Buttons()[0].Code)
}

func TestLearnerTimeout(t *testing.T) {
	var l Learner
	require.NoError(t, l.Start(nil, 3, 1000))
	l.Feed(7, 5000)

	assert.False(t, l.Update(5000+LearnTimeout), "timeout is strictly longer than 30s")
	assert.True(t, l.Update(5000+LearnTimeout+1))
	assert.False(t, l.Active())
	assert.False(t, l.Update(90000), "only reported once")
}
