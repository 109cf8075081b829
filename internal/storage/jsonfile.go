package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"wedding-rsvp/internal/models"
)

// JSONStore keeps all guests in memory and mirrors them to a JSON file
type JSONStore struct {
	mu     sync.RWMutex
	guests []models.Guest
	file   string
	now    func() time.Time
}

// NewJSONStore creates a new file-backed store
func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		guests: make([]models.Guest, 0),
		file:   filePath,
		now:    time.Now,
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := s.load(); err != nil {
			return nil, fmt.Errorf("failed to load storage: %w", err)
		}
	}

	return s, nil
}

// ListGuests returns all guests in insertion order
func (s *JSONStore) ListGuests(ctx context.Context) ([]models.Guest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	guests := make([]models.Guest, len(s.guests))
	for i, g := range s.guests {
		guests[i] = g.Clone()
	}
	return guests, nil
}

// GetGuest retrieves a guest by id
func (s *JSONStore) GetGuest(ctx context.Context, id string) (models.Guest, error) {
	if err := ctx.Err(); err != nil {
		return models.Guest{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Guest{}, ErrNotFound
	}
	return s.guests[i].Clone(), nil
}

// CreateGuest adds a new guest
func (s *JSONStore) CreateGuest(ctx context.Context, guest models.Guest) (models.Guest, error) {
	if err := ctx.Err(); err != nil {
		return models.Guest{}, err
	}
	guest, err := PrepareCreate(guest, s.now)
	if err != nil {
		return models.Guest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.guests = append(s.guests, guest)
	if err := s.save(); err != nil {
		s.guests = s.guests[:len(s.guests)-1]
		return models.Guest{}, err
	}
	return guest.Clone(), nil
}

// UpdateGuest replaces the editable fields of an existing guest
func (s *JSONStore) UpdateGuest(ctx context.Context, guest models.Guest) (models.Guest, error) {
	if err := ctx.Err(); err != nil {
		return models.Guest{}, err
	}
	if err := requireID(guest.ID); err != nil {
		return models.Guest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(guest.ID)
	if i < 0 {
		return models.Guest{}, ErrNotFound
	}
	updated, err := PrepareUpdate(s.guests[i], guest, s.now)
	if err != nil {
		return models.Guest{}, err
	}
	previous := s.guests[i]
	s.guests[i] = updated
	if err := s.save(); err != nil {
		s.guests[i] = previous
		return models.Guest{}, err
	}
	return updated.Clone(), nil
}

// DeleteGuest removes a guest permanently
func (s *JSONStore) DeleteGuest(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	previous := s.guests
	s.guests = append(append(make([]models.Guest, 0, len(s.guests)-1), s.guests[:i]...), s.guests[i+1:]...)
	if err := s.save(); err != nil {
		s.guests = previous
		return err
	}
	return nil
}

// Close is a no-op; every change is already on disk
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) indexOf(id string) int {
	for i, g := range s.guests {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// save writes the guests to file; callers hold the write lock
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.guests, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := s.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return os.Rename(tmp, s.file)
}

// load reads guests from file
func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		s.guests = make([]models.Guest, 0)
		return nil
	}

	if err := json.Unmarshal(data, &s.guests); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}
