package storage

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ilya-burinskiy/repairguides/internal/app/logger"
	"github.com/ilya-burinskiy/repairguides/internal/app/models"
)

// Inmemory storage
type MapStorage struct {
	fs            *FileStorage
	mu            sync.RWMutex
	records       []models.RepairRecord
	indexOnDevice map[string][]int
}

// New inmemory storage
func NewMapStorage(fs *FileStorage) *MapStorage {
	return &MapStorage{
		fs:            fs,
		records:       make([]models.RepairRecord, 0),
		indexOnDevice: make(map[string][]int),
	}
}

// Create record
func (ms *MapStorage) Create(ctx context.Context, r models.RepairRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.records = append(ms.records, r)
	ms.indexOnDevice[r.Device] = append(ms.indexOnDevice[r.Device], len(ms.records)-1)

	return nil
}

// Records saved for device in creation order
func (ms *MapStorage) FindByDevice(device string) []models.RepairRecord {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]models.RepairRecord, 0, len(ms.indexOnDevice[device]))
	for _, idx := range ms.indexOnDevice[device] {
		result = append(result, ms.records[idx])
	}

	return result
}

// Copy of all records in creation order
func (ms *MapStorage) Records() []models.RepairRecord {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]models.RepairRecord, len(ms.records))
	copy(result, ms.records)

	return result
}

// Ping always succeeds for inmemory storage
func (ms *MapStorage) Ping(ctx context.Context) error {
	return nil
}

// Close dumps storage to file if there is one
func (ms *MapStorage) Close(ctx context.Context) error {
	return ms.Dump()
}

// Dump inmemory storage to file
func (ms *MapStorage) Dump() error {
	if ms.fs != nil {
		return ms.fs.Dump(ms.Records())
	}

	return nil
}

// Restore inmemory storage from file
func (ms *MapStorage) Restore(records []models.RepairRecord) {
	ctx := context.TODO()
	for _, r := range records {
		if err := ms.Create(ctx, r); err != nil {
			logger.Log.Info("failed to restore", zap.Error(err))
		}
	}
}
