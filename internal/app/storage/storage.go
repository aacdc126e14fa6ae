package storage

import (
	"context"

	"github.com/ilya-burinskiy/repairguides/internal/app/models"
)

//go:generate mockgen -destination=mocks/mock_storage.go -package=mocks . Storage

// Storage of repair records
type Storage interface {
	RecordCreator
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// RecordCreator saves a single record
type RecordCreator interface {
	Create(ctx context.Context, record models.RepairRecord) error
}
