package directory

import (
	"context"
	"errors"

	"wedding-rsvp/internal/models"
)

// EditState is the inline editor of the guest table. At most one row is
// edited at a time.
type EditState struct {
	id    string
	orig  models.Guest
	draft models.Guest
	err   error
}

// Viewing reports whether no row is being edited
func (s *EditState) Viewing() bool {
	return s.id == ""
}

// Editing returns the edited row id and its draft
func (s *EditState) Editing() (string, models.Guest, bool) {
	if s.id == "" {
		return "", models.Guest{}, false
	}
	return s.id, s.draft.Clone(), true
}

// Begin starts editing row, discarding any other draft
func (s *EditState) Begin(row models.Guest) {
	s.id = row.ID
	s.orig = row.Clone()
	s.draft = row.Clone()
	s.err = nil
}

// Change modifies the draft with fn
func (s *EditState) Change(fn func(*models.Guest)) {
	if s.id == "" {
		return
	}
	fn(&s.draft)
}

// Err is the error of the last failed Save
func (s *EditState) Err() error {
	return s.err
}

// Cancel discards the draft
func (s *EditState) Cancel() {
	*s = EditState{}
}

// Save sends the changed fields of the draft. It returns to viewing only on
// success; on failure the draft and the error are kept.
func (s *EditState) Save(ctx context.Context, d *Directory) error {
	if s.id == "" {
		return nil
	}
	patch := models.PatchFrom(s.orig, s.draft)
	if patch.Empty() {
		s.Cancel()
		return nil
	}
	if err := d.Update(ctx, s.id, patch); err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			// saved, only the reload failed
			s.Cancel()
			return err
		}
		s.err = err
		return err
	}
	s.Cancel()
	return nil
}
