// Package rsvp submits the RSVP form of one household, one guest record per
// person.
package rsvp

import (
	"context"
	"fmt"
	"strings"

	"wedding-rsvp/internal/models"

	"github.com/rs/zerolog"
)

// Creator stores one guest record
type Creator interface {
	CreateGuest(ctx context.Context, guest models.Guest) (models.Guest, error)
}

// Form is the state of the RSVP form
type Form struct {
	Persons   []models.Person
	Household models.Household
}

// NewForm returns the initial form with one empty person.
func NewForm() Form {
	return Form{Persons: []models.Person{{}}}
}

// AddPerson appends an empty person
func (f *Form) AddPerson() {
	f.Persons = append(f.Persons, models.Person{})
}

// RemovePerson drops the person at i; the last person cannot be removed
func (f *Form) RemovePerson(i int) bool {
	if len(f.Persons) <= 1 || i < 0 || i >= len(f.Persons) {
		return false
	}
	f.Persons = append(f.Persons[:i], f.Persons[i+1:]...)
	return true
}

// ValidationErrors lists every invalid form field
type ValidationErrors []models.ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "ungültige Eingaben: " + strings.Join(msgs, "; ")
}

// Validate checks the form before anything is sent.
func Validate(persons []models.Person, household models.Household) error {
	var errs ValidationErrors
	if len(persons) == 0 {
		errs = append(errs, models.ValidationError{Field: "persons", Message: "Mindestens eine Person ist erforderlich"})
	}
	for i, p := range persons {
		field := fmt.Sprintf("persons[%d]", i)
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, models.ValidationError{Field: field + ".name", Message: "Name ist erforderlich"})
		}
		switch {
		case p.Essenswunsch == "":
			errs = append(errs, models.ValidationError{Field: field + ".essenswunsch", Message: "Bitte einen Essenswunsch wählen"})
		case !p.Essenswunsch.Valid():
			errs = append(errs, models.ValidationError{Field: field + ".essenswunsch", Message: fmt.Sprintf("unbekannter Essenswunsch %q", p.Essenswunsch)})
		}
		if p.Dabei < models.AttendancePending || p.Dabei > models.AttendanceNo {
			errs = append(errs, models.ValidationError{Field: field + ".dabei", Message: "ungültige Zusage"})
		}
	}
	if strings.TrimSpace(household.Email) == "" {
		errs = append(errs, models.ValidationError{Field: "email", Message: "E-Mail ist erforderlich"})
	}
	if !household.Anreise.Valid() {
		errs = append(errs, models.ValidationError{Field: "anreise", Message: fmt.Sprintf("unbekannte Anreise %q", household.Anreise)})
	}
	if !household.Unterkunft.Valid() {
		errs = append(errs, models.ValidationError{Field: "unterkunft", Message: fmt.Sprintf("unbekannte Unterkunft %q", household.Unterkunft)})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PartialFailureError reports the persons whose record was not stored.
// Records of the other persons were kept. FailedIndexes are positions in the
// submitted persons slice.
type PartialFailureError struct {
	FailedNames   []string
	FailedIndexes []int
	Created       int
	Err           error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("Fehler beim Speichern für: %s", strings.Join(e.FailedNames, ", "))
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// Result describes one submission
type Result struct {
	Created       []models.Guest
	FailedNames   []string
	FailedIndexes []int
}

// OK reports whether every person was stored
func (r Result) OK() bool {
	return len(r.FailedNames) == 0
}

func (r *Result) fail(i int, name string) {
	r.FailedIndexes = append(r.FailedIndexes, i)
	r.FailedNames = append(r.FailedNames, name)
}

// Submitter sends RSVP forms to the store
type Submitter struct {
	store Creator
	log   zerolog.Logger
}

// NewSubmitter creates a submitter
func NewSubmitter(store Creator, log zerolog.Logger) *Submitter {
	return &Submitter{store: store, log: log.With().Str("component", "rsvp").Logger()}
}

// Submit validates the form and creates one record per person, in order.
// Nothing is sent when validation fails. A failing person does not stop the
// others, but a cancelled ctx marks all remaining persons as failed.
func (s *Submitter) Submit(ctx context.Context, persons []models.Person, household models.Household) (Result, error) {
	if err := Validate(persons, household); err != nil {
		return Result{}, err
	}

	var res Result
	var firstErr error
	for i, p := range persons {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(persons); j++ {
				res.fail(j, strings.TrimSpace(persons[j].Name))
			}
			if firstErr == nil {
				firstErr = err
			}
			break
		}

		guest := household.GuestFor(p)
		created, err := s.store.CreateGuest(ctx, guest)
		if err != nil {
			s.log.Error().Err(err).Str("guest", guest.Name).Msg("Failed to submit RSVP")
			res.fail(i, guest.Name)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.log.Info().Str("id", created.ID).Str("guest", created.Name).Msg("RSVP submitted")
		res.Created = append(res.Created, created)
	}

	if !res.OK() {
		return res, &PartialFailureError{
			FailedNames:   res.FailedNames,
			FailedIndexes: res.FailedIndexes,
			Created:       len(res.Created),
			Err:           firstErr,
		}
	}
	return res, nil
}
