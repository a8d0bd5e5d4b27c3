package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T, opts ...Option) *File {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "history.json"), opts...)
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	f := newTestFile(t)

	s := f.Load()
	assert.NotNil(t, s.Data)
	assert.NotNil(t, s.Names)
	assert.Empty(t, s.Data)
}

func TestLoadCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	f := NewFile(path)

	s := f.Load()
	assert.Empty(t, s.Data)
	assert.Empty(t, s.Names)
}

func TestAppendRoundTrip(t *testing.T) {
	f := newTestFile(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.Append(now, map[string]int{"vps1": 12, "vps2": 0}, []string{"vps1", "vps2"}))
	require.NoError(t, f.Append(now.Add(15*time.Second), map[string]int{"vps1": 14, "vps2": 1}, []string{"vps1", "vps2"}))

	s := f.Load()
	require.Len(t, s.Data, 2)
	assert.Equal(t, "2026-08-30 12:00:00", s.Data[0].Time)
	assert.Equal(t, 12, s.Data[0].Connections["vps1"])
	assert.Equal(t, "2026-08-30 12:00:15", s.Data[1].Time)
	assert.Equal(t, []string{"vps1", "vps2"}, s.Names)
}

func TestAppendPrunesOldPoints(t *testing.T) {
	f := newTestFile(t, WithRetention(48*time.Hour))
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.Append(now.Add(-49*time.Hour), map[string]int{"vps1": 1}, []string{"vps1"}))
	require.NoError(t, f.Append(now, map[string]int{"vps1": 2}, []string{"vps1"}))

	s := f.Load()
	require.Len(t, s.Data, 1)
	assert.Equal(t, 2, s.Data[0].Connections["vps1"])
}

func TestAppendRetainsPointExactlyAtCutoff(t *testing.T) {
	f := newTestFile(t, WithRetention(48*time.Hour))
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.Append(now.Add(-48*time.Hour), map[string]int{"vps1": 1}, []string{"vps1"}))
	require.NoError(t, f.Append(now, map[string]int{"vps1": 2}, []string{"vps1"}))

	s := f.Load()
	require.Len(t, s.Data, 2)
	assert.Equal(t, "2026-08-28 12:00:00", s.Data[0].Time)
}

func TestAppendReplacesNames(t *testing.T) {
	f := newTestFile(t)
	now := time.Now()

	require.NoError(t, f.Append(now, map[string]int{"vps1": 1}, []string{"vps1"}))
	require.NoError(t, f.Append(now.Add(time.Second), map[string]int{"vps2": 3}, []string{"vps2"}))

	s := f.Load()
	assert.Equal(t, []string{"vps2"}, s.Names)
}

func TestWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	f := NewFile(path)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.Append(now, map[string]int{"vps1": 7}, []string{"vps1"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "data")
	assert.Contains(t, decoded, "vps_names")
}

func TestAppendSurvivesPreexistingForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1,2,3]`), 0o600))
	f := NewFile(path)

	require.NoError(t, f.Append(time.Now(), map[string]int{"vps1": 1}, []string{"vps1"}))
	s := f.Load()
	assert.Len(t, s.Data, 1)
}
