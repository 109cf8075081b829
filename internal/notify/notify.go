// Package notify tells the couple and the guests about new RSVP entries.
package notify

import (
	"context"
	"errors"
	"fmt"

	"wedding-rsvp/internal/models"
)

// Notifier is called after a guest record was created.
type Notifier interface {
	GuestCreated(ctx context.Context, guest models.Guest) error
}

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) GuestCreated(ctx context.Context, guest models.Guest) error {
	var errs []error
	for _, n := range m {
		if err := n.GuestCreated(ctx, guest); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop ignores every event.
type Nop struct{}

func (Nop) GuestCreated(context.Context, models.Guest) error { return nil }

// CoupleMessage is the text sent to the couple for a new RSVP entry.
func CoupleMessage(g models.Guest) string {
	msg := fmt.Sprintf("💌 *Neue Rückmeldung*\n\n%s: %s", g.Name, g.Attendance().Label())
	if g.Essenswunsch != "" {
		msg += fmt.Sprintf("\nEssen: %s", g.Essenswunsch)
	}
	if g.Anreise != "" {
		msg += fmt.Sprintf("\nAnreise: %s", g.Anreise)
	}
	if g.Unterkunft != "" {
		msg += fmt.Sprintf("\nUnterkunft: %s", g.Unterkunft)
	}
	if g.EssenMitbringsel != "" {
		msg += fmt.Sprintf("\nBringt mit: %s", g.EssenMitbringsel)
	}
	if g.Email != "" {
		msg += fmt.Sprintf("\nE-Mail: %s", g.Email)
	}
	return msg
}
