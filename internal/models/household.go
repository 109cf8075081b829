package models

// Person holds the per-person fields of one RSVP submission
type Person struct {
	Name         string
	Essenswunsch Essenswunsch
	Dabei        Attendance
}

// Household holds the fields shared by all persons submitted together
type Household struct {
	Email            string
	Anreise          Anreise
	EssenFr          bool
	EssenSa          bool
	EssenSo          bool
	Unterkunft       Unterkunft
	EssenMitbringsel string
}

// GuestFor merges the household fields into a record for p.
func (h Household) GuestFor(p Person) Guest {
	return Guest{
		Name:             p.Name,
		Essenswunsch:     p.Essenswunsch,
		Dabei:            p.Dabei.Bool(),
		Email:            h.Email,
		Anreise:          h.Anreise,
		EssenFr:          h.EssenFr,
		EssenSa:          h.EssenSa,
		EssenSo:          h.EssenSo,
		Unterkunft:       h.Unterkunft,
		EssenMitbringsel: h.EssenMitbringsel,
	}.Normalize()
}

// GuestPatch is a partial update; nil fields are left unchanged
type GuestPatch struct {
	Name             *string
	Email            *string
	Essenswunsch     *Essenswunsch
	Dabei            *Attendance
	Anreise          *Anreise
	EssenFr          *bool
	EssenSa          *bool
	EssenSo          *bool
	Unterkunft       *Unterkunft
	EssenMitbringsel *string
}

// Apply returns g with every non-nil patch field applied.
func (p GuestPatch) Apply(g Guest) Guest {
	g = g.Clone()
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Email != nil {
		g.Email = *p.Email
	}
	if p.Essenswunsch != nil {
		g.Essenswunsch = *p.Essenswunsch
	}
	if p.Dabei != nil {
		g.Dabei = p.Dabei.Bool()
	}
	if p.Anreise != nil {
		g.Anreise = *p.Anreise
	}
	if p.EssenFr != nil {
		g.EssenFr = *p.EssenFr
	}
	if p.EssenSa != nil {
		g.EssenSa = *p.EssenSa
	}
	if p.EssenSo != nil {
		g.EssenSo = *p.EssenSo
	}
	if p.Unterkunft != nil {
		g.Unterkunft = *p.Unterkunft
	}
	if p.EssenMitbringsel != nil {
		g.EssenMitbringsel = *p.EssenMitbringsel
	}
	return g.Normalize()
}

// PatchFrom builds a patch that turns from into to.
func PatchFrom(from, to Guest) GuestPatch {
	var p GuestPatch
	if from.Name != to.Name {
		p.Name = &to.Name
	}
	if from.Email != to.Email {
		p.Email = &to.Email
	}
	if from.Essenswunsch != to.Essenswunsch {
		p.Essenswunsch = &to.Essenswunsch
	}
	if from.Attendance() != to.Attendance() {
		a := to.Attendance()
		p.Dabei = &a
	}
	if from.Anreise != to.Anreise {
		p.Anreise = &to.Anreise
	}
	if from.EssenFr != to.EssenFr {
		p.EssenFr = &to.EssenFr
	}
	if from.EssenSa != to.EssenSa {
		p.EssenSa = &to.EssenSa
	}
	if from.EssenSo != to.EssenSo {
		p.EssenSo = &to.EssenSo
	}
	if from.Unterkunft != to.Unterkunft {
		p.Unterkunft = &to.Unterkunft
	}
	if from.EssenMitbringsel != to.EssenMitbringsel {
		p.EssenMitbringsel = &to.EssenMitbringsel
	}
	return p
}

// Empty reports whether the patch changes nothing.
func (p GuestPatch) Empty() bool {
	return p == GuestPatch{}
}
