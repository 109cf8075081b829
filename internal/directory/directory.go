// Package directory is the admin view over all guest records: loading,
// searching, editing, deleting and exporting them.
package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"wedding-rsvp/internal/export"
	"wedding-rsvp/internal/models"

	"github.com/rs/zerolog"
)

// ErrNotConfirmed is returned when a delete was not confirmed
var ErrNotConfirmed = errors.New("Löschen abgebrochen")

// Client is the part of the store API used by the directory
type Client interface {
	ListGuests(ctx context.Context) ([]models.Guest, error)
	CreateGuest(ctx context.Context, guest models.Guest) (models.Guest, error)
	UpdateGuest(ctx context.Context, guest models.Guest) (models.Guest, error)
	DeleteGuest(ctx context.Context, id string) error
	ExportGuests(ctx context.Context) ([]byte, error)
}

// LoadError means the guest list could not be fetched; the previous list is kept
type LoadError struct{ Err error }

func (e *LoadError) Error() string { return "Fehler beim Laden der Gäste: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// UpdateError means a guest record could not be saved
type UpdateError struct {
	ID  string
	Err error
}

func (e *UpdateError) Error() string { return "Fehler beim Speichern: " + e.Err.Error() }
func (e *UpdateError) Unwrap() error { return e.Err }

// DeleteError means a guest record could not be deleted
type DeleteError struct {
	ID  string
	Err error
}

func (e *DeleteError) Error() string { return "Fehler beim Löschen: " + e.Err.Error() }
func (e *DeleteError) Unwrap() error { return e.Err }

// ExportError means the spreadsheet could not be downloaded or written
type ExportError struct{ Err error }

func (e *ExportError) Error() string { return "Fehler beim Export: " + e.Err.Error() }
func (e *ExportError) Unwrap() error { return e.Err }

// Directory caches the last loaded guest list
type Directory struct {
	client Client
	log    zerolog.Logger

	mu     sync.RWMutex
	guests []models.Guest
}

// New creates an empty directory; call Load to fill it
func New(client Client, log zerolog.Logger) *Directory {
	return &Directory{
		client: client,
		log:    log.With().Str("component", "directory").Logger(),
		guests: make([]models.Guest, 0),
	}
}

// Load fetches all guests. On failure the previously loaded list stays.
func (d *Directory) Load(ctx context.Context) ([]models.Guest, error) {
	guests, err := d.client.ListGuests(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("Failed to load guests")
		return d.Guests(), &LoadError{Err: err}
	}

	d.mu.Lock()
	d.guests = guests
	d.mu.Unlock()
	d.log.Debug().Int("count", len(guests)).Msg("Guests loaded")
	return d.Guests(), nil
}

// Guests returns a copy of the cached list
func (d *Directory) Guests() []models.Guest {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Guest, len(d.guests))
	for i, g := range d.guests {
		out[i] = g.Clone()
	}
	return out
}

// Find returns the cached guest with id
func (d *Directory) Find(id string) (models.Guest, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, g := range d.guests {
		if g.ID == id {
			return g.Clone(), true
		}
	}
	return models.Guest{}, false
}

// Filter keeps the guests whose name or email contains term, ignoring
// case. A blank term keeps everything. Order is preserved.
func Filter(guests []models.Guest, term string) []models.Guest {
	if strings.TrimSpace(term) == "" {
		return guests
	}
	term = strings.ToLower(term)
	out := make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		if strings.Contains(strings.ToLower(g.Name), term) || strings.Contains(strings.ToLower(g.Email), term) {
			out = append(out, g)
		}
	}
	return out
}

// Add creates a guest record and reloads the list
func (d *Directory) Add(ctx context.Context, guest models.Guest) (models.Guest, error) {
	guest = guest.Normalize()
	if err := guest.Validate(); err != nil {
		return models.Guest{}, err
	}
	created, err := d.client.CreateGuest(ctx, guest)
	if err != nil {
		return models.Guest{}, fmt.Errorf("Fehler beim Hinzufügen: %w", err)
	}
	d.log.Info().Str("id", created.ID).Str("guest", created.Name).Msg("Guest added")
	if _, err := d.Load(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Update applies patch to the cached row with id, sends the full record and
// reloads the list on success.
func (d *Directory) Update(ctx context.Context, id string, patch models.GuestPatch) error {
	current, ok := d.Find(id)
	if !ok {
		return &UpdateError{ID: id, Err: fmt.Errorf("unbekannter Gast %q", id)}
	}
	updated := patch.Apply(current)
	if err := updated.Validate(); err != nil {
		return &UpdateError{ID: id, Err: err}
	}

	if _, err := d.client.UpdateGuest(ctx, updated); err != nil {
		d.log.Error().Err(err).Str("id", id).Msg("Failed to update guest")
		return &UpdateError{ID: id, Err: err}
	}
	d.log.Info().Str("id", id).Msg("Guest updated")
	_, err := d.Load(ctx)
	return err
}

// DeletePrompt is the confirmation question for deleting name
func DeletePrompt(name string) string {
	return fmt.Sprintf("Gast %q wirklich löschen?", name)
}

// Delete removes the guest after confirm accepted the prompt and reloads the
// list. Nothing is sent when confirm declines.
func (d *Directory) Delete(ctx context.Context, id, name string, confirm func(prompt string) bool) error {
	if confirm == nil || !confirm(DeletePrompt(name)) {
		return ErrNotConfirmed
	}
	if err := d.client.DeleteGuest(ctx, id); err != nil {
		d.log.Error().Err(err).Str("id", id).Msg("Failed to delete guest")
		return &DeleteError{ID: id, Err: err}
	}
	d.log.Info().Str("id", id).Str("guest", name).Msg("Guest deleted")
	_, err := d.Load(ctx)
	return err
}

// Export downloads the spreadsheet into dir and returns its path. The file
// only appears once it was written completely.
func (d *Directory) Export(ctx context.Context, dir string) (string, error) {
	data, err := d.client.ExportGuests(ctx)
	if err != nil {
		return "", &ExportError{Err: err}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &ExportError{Err: err}
	}
	tmp, err := os.CreateTemp(dir, export.FileName+".*.tmp")
	if err != nil {
		return "", &ExportError{Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", &ExportError{Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &ExportError{Err: err}
	}

	path := filepath.Join(dir, export.FileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", &ExportError{Err: err}
	}
	d.log.Info().Str("path", path).Int("bytes", len(data)).Msg("Guests exported")
	return path, nil
}
