// Package storage persists guest records for the store service.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wedding-rsvp/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound indicates that no guest exists for the requested id.
var ErrNotFound = errors.New("guest not found")

// Store is the guest record persistence contract used by the API.
type Store interface {
	ListGuests(ctx context.Context) ([]models.Guest, error)
	GetGuest(ctx context.Context, id string) (models.Guest, error)
	CreateGuest(ctx context.Context, guest models.Guest) (models.Guest, error)
	UpdateGuest(ctx context.Context, guest models.Guest) (models.Guest, error)
	DeleteGuest(ctx context.Context, id string) error
	Close() error
}

// PrepareCreate normalizes and validates a new record and assigns its id and
// timestamps.
func PrepareCreate(guest models.Guest, now func() time.Time) (models.Guest, error) {
	if now == nil {
		now = time.Now
	}
	guest = guest.Normalize()
	if err := guest.Validate(); err != nil {
		return models.Guest{}, err
	}
	guest.ID = uuid.NewString()
	guest.CreatedAt = now().UTC().Truncate(time.Millisecond)
	guest.UpdatedAt = guest.CreatedAt
	return guest, nil
}

// PrepareUpdate validates the replacement for existing and keeps its id and
// creation time.
func PrepareUpdate(existing, guest models.Guest, now func() time.Time) (models.Guest, error) {
	if now == nil {
		now = time.Now
	}
	guest = guest.Normalize()
	if err := guest.Validate(); err != nil {
		return models.Guest{}, err
	}
	guest.ID = existing.ID
	guest.CreatedAt = existing.CreatedAt
	guest.UpdatedAt = now().UTC().Truncate(time.Millisecond)
	return guest, nil
}

func requireID(id string) error {
	if id == "" {
		return fmt.Errorf("guest id is required")
	}
	return nil
}
