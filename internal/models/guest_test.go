package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestGuestValidate(t *testing.T) {
	tests := []struct {
		name  string
		guest Guest
		field string
	}{
		{name: "ok", guest: Guest{Name: "Tomke", Essenswunsch: EssenVegan, Anreise: AnreiseFreitag, Unterkunft: UnterkunftCamping}},
		{name: "unset enums ok", guest: Guest{Name: "Jan-Paul"}},
		{name: "blank name", guest: Guest{Name: "   "}, field: "name"},
		{name: "bad essenswunsch", guest: Guest{Name: "A", Essenswunsch: "Fisch"}, field: "essenswunsch"},
		{name: "bad anreise", guest: Guest{Name: "A", Anreise: "sonntag"}, field: "anreise"},
		{name: "bad unterkunft", guest: Guest{Name: "A", Unterkunft: "zelt"}, field: "unterkunft"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guest.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestAttendanceRoundTrip(t *testing.T) {
	for _, a := range []Attendance{AttendancePending, AttendanceYes, AttendanceNo} {
		if got := AttendanceOf(a.Bool()); got != a {
			t.Fatalf("AttendanceOf(%v.Bool()) = %v", a, got)
		}
	}
	if AttendancePending.Bool() != nil {
		t.Fatal("pending must map to nil")
	}
}

func TestGuestJSONPendingIsNull(t *testing.T) {
	raw, err := json.Marshal(Guest{ID: "g1", Name: "Tomke"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"dabei":null`) {
		t.Fatalf("json = %s, want dabei null", raw)
	}

	var g Guest
	if err := json.Unmarshal([]byte(`{"name":"A","dabei":false,"anreise":"samstag","essen_sa":true}`), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if g.Attendance() != AttendanceNo {
		t.Fatalf("attendance = %v, want no", g.Attendance())
	}
	if g.Anreise != AnreiseSamstag || !g.EssenSa {
		t.Fatalf("guest = %+v", g)
	}
}

func TestHouseholdGuestFor(t *testing.T) {
	h := Household{Email: " a@b.com ", Anreise: AnreiseFreitag, EssenFr: true, Unterkunft: UnterkunftHotel, EssenMitbringsel: "Muffins"}
	g := h.GuestFor(Person{Name: " Tomke ", Essenswunsch: EssenVegetarisch, Dabei: AttendanceYes})

	if g.Name != "Tomke" || g.Email != "a@b.com" {
		t.Fatalf("name/email = %q/%q, want trimmed values", g.Name, g.Email)
	}
	if g.Anreise != AnreiseFreitag || !g.EssenFr || g.EssenSa || g.Unterkunft != UnterkunftHotel {
		t.Fatalf("household fields not merged: %+v", g)
	}
	if g.Attendance() != AttendanceYes || g.Essenswunsch != EssenVegetarisch {
		t.Fatalf("person fields not merged: %+v", g)
	}
}

func TestGuestPatchApply(t *testing.T) {
	yes := true
	base := Guest{ID: "g1", Name: "Tomke", Dabei: &yes, EssenFr: true}

	pending := AttendancePending
	name := "Tomke M."
	got := GuestPatch{Dabei: &pending, Name: &name}.Apply(base)

	if got.Dabei != nil {
		t.Fatal("expected dabei reset to pending")
	}
	if got.Name != "Tomke M." || !got.EssenFr || got.ID != "g1" {
		t.Fatalf("patched guest = %+v", got)
	}
	if base.Dabei == nil || !*base.Dabei {
		t.Fatal("apply must not mutate the input")
	}
}

func TestPatchFrom(t *testing.T) {
	no := false
	from := Guest{Name: "A", Anreise: AnreiseFreitag}
	to := Guest{Name: "A", Anreise: AnreiseSamstag, Dabei: &no}

	p := PatchFrom(from, to)
	if p.Name != nil {
		t.Fatal("unchanged name must not be patched")
	}
	if p.Anreise == nil || *p.Anreise != AnreiseSamstag {
		t.Fatalf("anreise patch = %v", p.Anreise)
	}
	if p.Dabei == nil || *p.Dabei != AttendanceNo {
		t.Fatalf("dabei patch = %v", p.Dabei)
	}
	if !PatchFrom(from, from).Empty() {
		t.Fatal("identical records must give an empty patch")
	}
	if !p.Apply(from).SameFields(to) {
		t.Fatal("applying the patch must reproduce the target")
	}
}
