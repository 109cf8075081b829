package models

import (
	"fmt"
	"strings"
	"time"
)

// Guest represents one attending individual's RSVP entry
type Guest struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email,omitempty"`
	Essenswunsch     Essenswunsch `json:"essenswunsch,omitempty"`
	Dabei            *bool        `json:"dabei"`
	Anreise          Anreise      `json:"anreise,omitempty"`
	EssenFr          bool         `json:"essen_fr"`
	EssenSa          bool         `json:"essen_sa"`
	EssenSo          bool         `json:"essen_so"`
	Unterkunft       Unterkunft   `json:"unterkunft,omitempty"`
	EssenMitbringsel string       `json:"essen_mitbringsel,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Essenswunsch is the dietary preference of one person
type Essenswunsch string

const (
	EssenVegan       Essenswunsch = "Vegan"
	EssenVegetarisch Essenswunsch = "Vegetarisch"
	EssenEgal        Essenswunsch = "Egal"
)

// Anreise is the arrival day of a household
type Anreise string

const (
	AnreiseFreitag Anreise = "freitag"
	AnreiseSamstag Anreise = "samstag"
)

// Unterkunft is the lodging choice of a household
type Unterkunft string

const (
	UnterkunftHotel   Unterkunft = "hotel"
	UnterkunftVorOrt  Unterkunft = "vor_ort"
	UnterkunftCamping Unterkunft = "camping"
)

// Attendance is the tri-state value behind Guest.Dabei
type Attendance int

const (
	AttendancePending Attendance = iota
	AttendanceYes
	AttendanceNo
)

// Valid reports whether e is empty or one of the listed values.
func (e Essenswunsch) Valid() bool {
	switch e {
	case "", EssenVegan, EssenVegetarisch, EssenEgal:
		return true
	}
	return false
}

func (a Anreise) Valid() bool {
	switch a {
	case "", AnreiseFreitag, AnreiseSamstag:
		return true
	}
	return false
}

func (u Unterkunft) Valid() bool {
	switch u {
	case "", UnterkunftHotel, UnterkunftVorOrt, UnterkunftCamping:
		return true
	}
	return false
}

// Bool converts the attendance into the pointer form stored on Guest.
func (a Attendance) Bool() *bool {
	switch a {
	case AttendanceYes:
		v := true
		return &v
	case AttendanceNo:
		v := false
		return &v
	}
	return nil
}

// AttendanceOf reads the tri-state value of dabei.
func AttendanceOf(dabei *bool) Attendance {
	switch {
	case dabei == nil:
		return AttendancePending
	case *dabei:
		return AttendanceYes
	default:
		return AttendanceNo
	}
}

// Label returns the German status text shown in guest lists.
func (a Attendance) Label() string {
	switch a {
	case AttendanceYes:
		return "Kommt"
	case AttendanceNo:
		return "Kommt nicht"
	default:
		return "Ausstehend"
	}
}

// ValidationError reports an invalid field of a guest record
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize trims free-text fields.
func (g Guest) Normalize() Guest {
	g.Name = strings.TrimSpace(g.Name)
	g.Email = strings.TrimSpace(g.Email)
	g.EssenMitbringsel = strings.TrimSpace(g.EssenMitbringsel)
	return g
}

// Validate checks the record invariants.
func (g Guest) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name ist erforderlich"}
	}
	if !g.Essenswunsch.Valid() {
		return &ValidationError{Field: "essenswunsch", Message: fmt.Sprintf("unbekannter Essenswunsch %q", g.Essenswunsch)}
	}
	if !g.Anreise.Valid() {
		return &ValidationError{Field: "anreise", Message: fmt.Sprintf("unbekannte Anreise %q", g.Anreise)}
	}
	if !g.Unterkunft.Valid() {
		return &ValidationError{Field: "unterkunft", Message: fmt.Sprintf("unbekannte Unterkunft %q", g.Unterkunft)}
	}
	return nil
}

// Attendance returns the tri-state attendance of the guest.
func (g Guest) Attendance() Attendance {
	return AttendanceOf(g.Dabei)
}

// Clone returns a copy that shares no pointers with g.
func (g Guest) Clone() Guest {
	if g.Dabei != nil {
		v := *g.Dabei
		g.Dabei = &v
	}
	return g
}

// SameFields reports whether both records carry identical RSVP fields,
// ignoring id and timestamps.
func (g Guest) SameFields(o Guest) bool {
	return g.Name == o.Name &&
		g.Email == o.Email &&
		g.Essenswunsch == o.Essenswunsch &&
		g.Attendance() == o.Attendance() &&
		g.Anreise == o.Anreise &&
		g.EssenFr == o.EssenFr &&
		g.EssenSa == o.EssenSa &&
		g.EssenSo == o.EssenSo &&
		g.Unterkunft == o.Unterkunft &&
		g.EssenMitbringsel == o.EssenMitbringsel
}
