package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := New("testdata/ref.png", Options{WindowSize: 11, K1: 0.01, K2: 0.03, BitDepth: 8})
	r.Add(Entry{Path: "a.png", Score: 0.9871, Width: 64, Height: 64})
	r.Add(Entry{Path: "b.png", Score: 0.4412, Width: 64, Height: 64})
	r.Add(Entry{Path: "broken.png", Err: "failed to decode broken.png: unexpected EOF"})
	return r
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	want := sampleReport()

	require.NoError(t, Write(path, want))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, want.Reference, got.Reference)
	assert.Equal(t, want.Options, got.Options)
	assert.Equal(t, want.Entries, got.Entries)
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, 0)
}

func TestWriteOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	first := New("ref.png", Options{WindowSize: 11, K1: 0.01, K2: 0.03, BitDepth: 8})
	first.Add(Entry{Path: "old.png", Score: 0.5})
	require.NoError(t, Write(path, first))

	second := sampleReport()
	require.NoError(t, Write(path, second))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, second.Entries, got.Entries)
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, Write(path, sampleReport()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestWriteNilReport(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "report.json"), nil)
	assert.Error(t, err)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Contains(t, nf.Path, "absent.json")
}

func TestReadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Read(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFailedCount(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, 1, r.Failed())

	empty := New("ref.png", Options{})
	assert.Equal(t, 0, empty.Failed())
}
