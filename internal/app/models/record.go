package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Placeholder for optional guide fields the catalog left out
const Unknown = "Unknown"

var ErrInvalidRecord = errors.New("invalid repair record")

// Repair guide persisted for a device
type RepairRecord struct {
	ID           string    `json:"id" bson:"_id"`
	Issue        string    `json:"issue" bson:"issue"`
	Device       string    `json:"device" bson:"device"`
	GuideURL     string    `json:"guideUrl" bson:"guideUrl"`
	Difficulty   string    `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	TimeRequired string    `json:"timeRequired,omitempty" bson:"timeRequired,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Validate checks required fields
func (r RepairRecord) Validate() error {
	switch {
	case r.Issue == "":
		return fmt.Errorf("%w: issue is required", ErrInvalidRecord)
	case r.Device == "":
		return fmt.Errorf("%w: device is required", ErrInvalidRecord)
	case r.GuideURL == "":
		return fmt.Errorf("%w: guideUrl is required", ErrInvalidRecord)
	}

	return nil
}

// Guide search result item returned by the catalog API
type Guide struct {
	Title        string      `json:"title"`
	GuideID      json.Number `json:"guideid"`
	Difficulty   string      `json:"difficulty"`
	TimeRequired string      `json:"time_required"`
}

// ToRecord maps guide onto a record for device
func (g Guide) ToRecord(device, guideURLPrefix string) (RepairRecord, error) {
	if g.GuideID == "" {
		return RepairRecord{}, fmt.Errorf("%w: guide %q has no guideid", ErrInvalidRecord, g.Title)
	}

	record := RepairRecord{
		Issue:        g.Title,
		Device:       device,
		GuideURL:     guideURLPrefix + g.GuideID.String(),
		Difficulty:   orUnknown(g.Difficulty),
		TimeRequired: orUnknown(g.TimeRequired),
	}
	if err := record.Validate(); err != nil {
		return RepairRecord{}, err
	}

	return record, nil
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
