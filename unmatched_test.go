package unmatched_test

import (
	"testing"

	unmatched "github.com/Dionid/unmatched"
	"github.com/Dionid/unmatched/assert"
	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/world"
)

func TestGetWorldConfigDefaults(t *testing.T) {
	cfg := unmatched.GetWorldConfig()
	assert.Equal(t, cfg.Mode, unmatched.ModeLocal)
	assert.Equal(t, cfg.Port, "4040")
	assert.Equal(t, cfg.RedisAddress, "localhost:6379")
}

func TestGetWorldConfigFromEnv(t *testing.T) {
	t.Setenv("UNMATCHED_MODE", unmatched.ModeReplicated)
	t.Setenv("UNMATCHED_PORT", "9090")
	t.Setenv("REDIS_ADDRESS", "redis:6379")

	cfg := unmatched.GetWorldConfig()
	assert.Equal(t, cfg.Mode, unmatched.ModeReplicated)
	assert.Equal(t, cfg.Port, "9090")
	assert.Equal(t, cfg.RedisAddress, "redis:6379")
}

func TestNewGameLocalMode(t *testing.T) {
	game, err := unmatched.NewGame(unmatched.WorldConfig{Mode: unmatched.ModeLocal, Port: "0"})
	assert.NilError(t, err)
	t.Cleanup(func() {
		assert.NilError(t, game.Shutdown())
	})

	assert.Equal(t, game.Store().State().ResourcesByID["1"].Value, 10)

	assert.NilError(t, game.Store().Apply(ops.IncrementResource("1")))
	assert.Equal(t, game.Store().State().ResourcesByID["1"].Value, 11)

	assert.NilError(t, game.Drag().Begin(ops.EntityCharacter, "1", 100, 100))
	assert.NilError(t, game.Drag().Move(150, 175))
	assert.Equal(t, game.Store().State().CharactersByID["1"].Position.X, 150.0)
	assert.Equal(t, game.Store().State().CharactersByID["1"].Position.Y, 175.0)
	game.Drag().End()
}

func TestNewGameWithSeedWorld(t *testing.T) {
	seed, err := world.LoadSeed([]byte(`{"id":"blank"}`))
	assert.NilError(t, err)

	game, err := unmatched.NewGame(
		unmatched.WorldConfig{Mode: unmatched.ModeLocal},
		unmatched.WithSeedWorld(seed),
	)
	assert.NilError(t, err)
	t.Cleanup(func() {
		assert.NilError(t, game.Shutdown())
	})

	assert.Len(t, game.Store().State().CardsByID, 0)
	assert.Equal(t, game.Store().State().ID, world.WorldID("blank"))
}

func TestNewGameRejectsUnknownMode(t *testing.T) {
	_, err := unmatched.NewGame(unmatched.WorldConfig{Mode: "clustered"})
	assert.ErrorIs(t, err, unmatched.ErrUnknownMode)
}
