package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ilya-burinskiy/repairguides/internal/app/logger"
)

// Dumper
type Dumper interface {
	Dump() error
}

// StorageDumper periodically dumps inmemory storage to its file
type StorageDumper struct {
	dumper   Dumper
	interval time.Duration
}

// NewStorageDumper
func NewStorageDumper(dumper Dumper, interval time.Duration) StorageDumper {
	return StorageDumper{
		dumper:   dumper,
		interval: interval,
	}
}

// Run dumps storage every interval until ctx is done
func (d StorageDumper) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.dumper.Dump(); err != nil {
				logger.Log.Info("failed to dump storage", zap.Error(err))
			}
		}
	}
}
