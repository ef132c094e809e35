package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	records := []Record{
		{Episode: 1, Character: "Beau", RollType: "attack", Die: "d20", Total: 20, Nat20: true},
		{Episode: 1, Character: "Beau", RollType: "attack", Die: "d20", Total: 1, Nat1: true},
		{Episode: 2, Character: "Fjord", RollType: "damage", Die: "d8", Total: 15, Damage: 15, Kill: true},
	}

	path := filepath.Join(t.TempDir(), "rolls.db")
	require.NoError(t, WriteSnapshot(path, records))

	table, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, table.Records, len(records))

	// Order and derived nat flags survive the round trip.
	assert.Equal(t, records, table.Records)
	assert.Equal(t, 1, table.MinEpisode)
	assert.Equal(t, 2, table.MaxEpisode)
}

func TestSnapshotRewriteReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolls.db")

	require.NoError(t, WriteSnapshot(path, []Record{
		{Episode: 1, Character: "Beau", RollType: "attack", Die: "d20", Total: 7},
	}))
	require.NoError(t, WriteSnapshot(path, []Record{
		{Episode: 5, Character: "Jester", RollType: "save", Die: "d20", Total: 12},
	}))

	table, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Jester", table.Records[0].Character)
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	_, err := Load("rolls.parquet")
	assert.Error(t, err)
}
