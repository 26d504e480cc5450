package progress

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	rec := Default()
	rec.HighestStage = 12
	rec.Essence = 340
	rec.UnlockCore("lich")
	rec.UnlockPower("quake")
	rec.EquippedCore = "lich"
	require.NoError(t, s.Save(ctx, "main", rec))

	got, err := s.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestFileStoreMissingSlot(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	rec, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoRecord)
	assert.Equal(t, Default(), rec)
}

func TestFileStoreCorruptFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.msgpack"), []byte{0xc1, 0x00}, 0o644))

	rec, err := s.Load(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, Default(), rec)
}

func TestDecodeFallsBackPerField(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{
		"highest_stage":  "twelve",
		"essence":        42,
		"unlocked_cores": []string{"aegis", "lich"},
		"talents":        17,
		"unknown_key":    true,
	})
	require.NoError(t, err)

	rec, bad := Decode(data)
	assert.Equal(t, 2, bad)
	assert.Equal(t, 1, rec.HighestStage, "bad field keeps its default")
	assert.Equal(t, 42, rec.Essence)
	assert.Equal(t, []string{"aegis", "lich"}, rec.UnlockedCores)
	assert.Nil(t, rec.Talents)
}

func TestDecodeClampsStage(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"highest_stage": 0})
	require.NoError(t, err)
	rec, _ := Decode(data)
	assert.Equal(t, 1, rec.HighestStage)
}

func TestUnlockIsIdempotent(t *testing.T) {
	rec := Default()
	assert.True(t, rec.UnlockCore("gorgon"))
	assert.False(t, rec.UnlockCore("gorgon"))
	assert.False(t, rec.UnlockCore(""))
	assert.Equal(t, []string{"gorgon"}, rec.UnlockedCores)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_, err := m.Load(ctx, "main")
	assert.ErrorIs(t, err, ErrNoRecord)

	rec := Default()
	rec.UnlockCore("aegis")
	require.NoError(t, m.Save(ctx, "main", rec))
	rec.UnlockedCores[0] = "mutated"

	got, err := m.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"aegis"}, got.UnlockedCores)
	assert.Equal(t, 1, m.Saves)
}
