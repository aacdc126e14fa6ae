package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilya-burinskiy/repairguides/internal/app/models"
	"github.com/ilya-burinskiy/repairguides/internal/app/storage"
)

func TestMapStorageCreate(t *testing.T) {
	ctx := context.Background()
	ms := storage.NewMapStorage(nil)

	screen := models.RepairRecord{ID: "1", Issue: "Cracked Screen", Device: "iPhone12", GuideURL: "https://www.ifixit.com/Guide/123"}
	battery := models.RepairRecord{ID: "2", Issue: "Battery", Device: "iPhone12", GuideURL: "https://www.ifixit.com/Guide/456"}
	other := models.RepairRecord{ID: "3", Issue: "Battery", Device: "Pixel 6", GuideURL: "https://www.ifixit.com/Guide/789"}
	require.NoError(t, ms.Create(ctx, screen))
	require.NoError(t, ms.Create(ctx, battery))
	require.NoError(t, ms.Create(ctx, other))
	require.NoError(t, ms.Create(ctx, screen))

	assert.Equal(t, []models.RepairRecord{screen, battery, screen}, ms.FindByDevice("iPhone12"))
	assert.Equal(t, []models.RepairRecord{other}, ms.FindByDevice("Pixel 6"))
	assert.Len(t, ms.Records(), 4)
	assert.Empty(t, ms.FindByDevice("Galaxy S21"))
}

func TestMapStorageCreateRejectsInvalidRecord(t *testing.T) {
	ms := storage.NewMapStorage(nil)

	err := ms.Create(context.Background(), models.RepairRecord{Device: "iPhone12", GuideURL: "https://www.ifixit.com/Guide/1"})
	assert.ErrorIs(t, err, models.ErrInvalidRecord)
	assert.Empty(t, ms.Records())
}

func TestMapStorageDumpAndRestore(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFileStorage(filepath.Join(t.TempDir(), "repairs.json"))
	ms := storage.NewMapStorage(fs)

	records := []models.RepairRecord{
		{
			ID:           "1",
			Issue:        "Cracked Screen",
			Device:       "iPhone12",
			GuideURL:     "https://www.ifixit.com/Guide/123",
			Difficulty:   "Moderate",
			TimeRequired: models.Unknown,
			CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			ID:           "2",
			Issue:        "Battery",
			Device:       "iPhone12",
			GuideURL:     "https://www.ifixit.com/Guide/456",
			Difficulty:   models.Unknown,
			TimeRequired: models.Unknown,
			CreatedAt:    time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC),
		},
	}
	for _, r := range records {
		require.NoError(t, ms.Create(ctx, r))
	}
	require.NoError(t, ms.Close(ctx))

	snapshot, err := fs.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, records, snapshot)

	restored := storage.NewMapStorage(fs)
	restored.Restore(snapshot)
	assert.Equal(t, records, restored.Records())
}

func TestFileStorageSnapshotOfMissingFile(t *testing.T) {
	fs := storage.NewFileStorage(filepath.Join(t.TempDir(), "missing.json"))

	records, err := fs.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, records)
}
