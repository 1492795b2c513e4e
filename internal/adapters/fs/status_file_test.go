package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/telebus/internal/domain"
)

func TestStatusFile_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "telectl")
	f := NewStatusFile(dir)
	ctx := context.Background()

	empty, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty)

	want := domain.SupervisorStatus{
		State:      "Open",
		SessionID:  "4b7c6f0e-6d1a-4a55-9d43-0f3a1b2c3d4e",
		Opens:      2,
		Reconnects: 1,
		LastError:  "bus connection lost",
		UpdatedAt:  time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.Save(ctx, want))

	got, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(f.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStatusFile_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, statusFileName), []byte("{"), 0o600))

	_, err := NewStatusFile(dir).Load(context.Background())
	assert.Error(t, err)
}
