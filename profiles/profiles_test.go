package profiles

import (
	"context"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	c := config.Default()
	c.Personality = k2so.PersonalityAlert
	c.Volume = 12
	p := c.Snapshot("loud")

	lines := Lines(p)
	assert.Equal(t, []string{
		"mode alert",
		"bright " + strconv.Itoa(int(c.Eyes.Brightness)),
		"volume 12",
	}, lines[:3])
	assert.Len(t, lines, 8)
	assert.Contains(t, lines, "timing sound_pause 8000 20000")
}

func TestAPI(t *testing.T) {
	var applied []config.Profile
	api := NewAPI(func(_ context.Context, p config.Profile) error {
		applied = append(applied, p)
		return nil
	})

	server := httptest.NewServer(api.Router())
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	p := config.Default().Snapshot("night")
	p.Personality = k2so.PersonalityIdle

	id, err := client.Create(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := client.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "night", got.Name)
	assert.Equal(t, k2so.PersonalityIdle, got.Personality)

	all, err := client.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, client.Apply(ctx, id))
	require.Len(t, applied, 1)
	assert.Equal(t, "night", applied[0].Name)

	require.NoError(t, client.Delete(ctx, id))
	all, err = client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAPIValidation(t *testing.T) {
	server := httptest.NewServer(NewAPI(nil).Router())
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(*config.Profile)
	}{
		{"MissingName", func(p *config.Profile) { p.Name = "" }},
		{"LongName", func(p *config.Profile) { p.Name = "a name that is far too long" }},
		{"BadPersonality", func(p *config.Profile) { p.Personality = k2so.Personality(7) }},
		{"Loud", func(p *config.Profile) { p.Volume = 31 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := config.Default().Snapshot("ok")
			tt.modify(&p)
			_, err := client.Create(ctx, p)
			assert.Error(t, err)
		})
	}
}
