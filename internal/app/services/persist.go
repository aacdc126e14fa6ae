package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ilya-burinskiy/repairguides/internal/app/models"
	"github.com/ilya-burinskiy/repairguides/internal/app/storage"
)

var ErrUnexpectedPayload = errors.New("guide search result is not a list of guides")

// PersistError reports the guide whose record could not be saved.
// Records of the guides before Index stay saved.
type PersistError struct {
	Index int
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to save guide #%d: %s", e.Index, e.Err.Error())
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// GuidePersister saves found repair guides of a device
type GuidePersister interface {
	Persist(ctx context.Context, device string) error
}

type guidePersister struct {
	fetcher        GuideFetcher
	store          storage.RecordCreator
	guideURLPrefix string
	now            func() time.Time
}

func NewGuidePersister(fetcher GuideFetcher, store storage.RecordCreator, guideURLPrefix string) GuidePersister {
	return guidePersister{
		fetcher:        fetcher,
		store:          store,
		guideURLPrefix: guideURLPrefix,
		now:            time.Now,
	}
}

// Persist creates one record per found guide, one at a time, stopping at the first failure
func (p guidePersister) Persist(ctx context.Context, device string) error {
	payload, err := p.fetcher.Fetch(ctx, device)
	if err != nil {
		return err
	}

	guides, err := ParseGuides(payload)
	if err != nil {
		return err
	}

	for i, guide := range guides {
		record, err := guide.ToRecord(device, p.guideURLPrefix)
		if err != nil {
			return &PersistError{Index: i, Err: err}
		}
		record.ID = uuid.NewString()
		record.CreatedAt = p.now().UTC()

		if err := p.store.Create(ctx, record); err != nil {
			return &PersistError{Index: i, Err: err}
		}
	}

	return nil
}

// ParseGuides decodes guide search result which has to be a JSON array
func ParseGuides(payload json.RawMessage) ([]models.Guide, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrUnexpectedPayload
	}

	guides := make([]models.Guide, 0)
	if err := json.Unmarshal(trimmed, &guides); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedPayload, err)
	}

	return guides, nil
}
