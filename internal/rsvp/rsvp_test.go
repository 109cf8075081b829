package rsvp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wedding-rsvp/internal/models"

	"github.com/rs/zerolog"
)

type fakeCreator struct {
	calls    []models.Guest
	failOn   map[string]error
	failCall int
	onCall   func(n int)
}

func (f *fakeCreator) CreateGuest(_ context.Context, g models.Guest) (models.Guest, error) {
	f.calls = append(f.calls, g)
	if f.onCall != nil {
		f.onCall(len(f.calls))
	}
	if err := f.failOn[g.Name]; err != nil {
		return models.Guest{}, err
	}
	if f.failCall == len(f.calls) {
		return models.Guest{}, errors.New("503")
	}
	g.ID = fmt.Sprintf("id-%d", len(f.calls))
	return g, nil
}

func household() models.Household {
	return models.Household{Email: "a@b.com", Anreise: models.AnreiseFreitag, EssenFr: true}
}

func TestSubmitMergesHousehold(t *testing.T) {
	t.Parallel()

	store := &fakeCreator{}
	persons := []models.Person{
		{Name: "Tomke", Essenswunsch: models.EssenVegan, Dabei: models.AttendanceYes},
		{Name: " Jan-Paul ", Essenswunsch: models.EssenEgal, Dabei: models.AttendanceNo},
	}

	res, err := NewSubmitter(store, zerolog.Nop()).Submit(context.Background(), persons, household())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.OK() || len(res.Created) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(store.calls) != 2 {
		t.Fatalf("creates = %d, want 2", len(store.calls))
	}

	for i, p := range persons {
		got := store.calls[i]
		if got.Email != "a@b.com" || got.Anreise != models.AnreiseFreitag || !got.EssenFr || got.EssenSa || got.EssenSo {
			t.Fatalf("call %d household fields = %+v", i, got)
		}
		if got.Essenswunsch != p.Essenswunsch || got.Attendance() != p.Dabei {
			t.Fatalf("call %d person fields = %+v, want %+v", i, got, p)
		}
	}
	if store.calls[1].Name != "Jan-Paul" {
		t.Fatalf("name = %q, want trimmed", store.calls[1].Name)
	}
}

func TestSubmitPartialFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("500")
	store := &fakeCreator{failOn: map[string]error{"B": storeErr}}
	persons := []models.Person{
		{Name: "A", Essenswunsch: models.EssenEgal},
		{Name: "B", Essenswunsch: models.EssenEgal},
		{Name: "C", Essenswunsch: models.EssenEgal},
	}

	res, err := NewSubmitter(store, zerolog.Nop()).Submit(context.Background(), persons, household())
	var pf *PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("error = %v, want PartialFailureError", err)
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("error does not wrap the store error")
	}
	if res.OK() {
		t.Fatal("OK = true, want false")
	}
	if len(pf.FailedNames) != 1 || pf.FailedNames[0] != "B" {
		t.Fatalf("failed = %v, want [B]", pf.FailedNames)
	}
	if len(pf.FailedIndexes) != 1 || pf.FailedIndexes[0] != 1 {
		t.Fatalf("failed indexes = %v, want [1]", pf.FailedIndexes)
	}
	if len(store.calls) != 3 || len(res.Created) != 2 {
		t.Fatalf("calls = %d, created = %d, want 3 and 2", len(store.calls), len(res.Created))
	}
}

func TestSubmitInvalidSendsNothing(t *testing.T) {
	t.Parallel()

	store := &fakeCreator{}
	persons := []models.Person{
		{Name: "A", Essenswunsch: models.EssenEgal},
		{Name: "  "},
	}

	_, err := NewSubmitter(store, zerolog.Nop()).Submit(context.Background(), persons, models.Household{})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("creates = %d, want 0", len(store.calls))
	}

	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, want := range []string{"persons[1].name", "persons[1].essenswunsch", "email"} {
		if !fields[want] {
			t.Fatalf("missing error for %s in %v", want, verrs)
		}
	}
	if fields["persons[0].name"] {
		t.Fatal("valid person reported as invalid")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		persons   []models.Person
		household models.Household
		wantErr   bool
	}{
		{"ok", []models.Person{{Name: "A", Essenswunsch: models.EssenVegan}}, household(), false},
		{"no persons", nil, household(), true},
		{"bad diet", []models.Person{{Name: "A", Essenswunsch: "Fisch"}}, household(), true},
		{"bad arrival", []models.Person{{Name: "A", Essenswunsch: models.EssenVegan}}, models.Household{Email: "a@b.com", Anreise: "sonntag"}, true},
		{"bad lodging", []models.Person{{Name: "A", Essenswunsch: models.EssenVegan}}, models.Household{Email: "a@b.com", Unterkunft: "zelt"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.persons, tt.household)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitCancelledMarksRemainingFailed(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &fakeCreator{onCall: func(n int) {
		if n == 1 {
			cancel()
		}
	}}
	persons := []models.Person{
		{Name: "A", Essenswunsch: models.EssenEgal},
		{Name: "B", Essenswunsch: models.EssenEgal},
		{Name: "C", Essenswunsch: models.EssenEgal},
	}

	res, err := NewSubmitter(store, zerolog.Nop()).Submit(ctx, persons, household())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want %v", err, context.Canceled)
	}
	if len(store.calls) != 1 {
		t.Fatalf("creates = %d, want 1", len(store.calls))
	}
	if len(res.FailedNames) != 2 || res.FailedNames[0] != "B" || res.FailedNames[1] != "C" {
		t.Fatalf("failed = %v, want [B C]", res.FailedNames)
	}
	if len(res.FailedIndexes) != 2 || res.FailedIndexes[0] != 1 || res.FailedIndexes[1] != 2 {
		t.Fatalf("failed indexes = %v, want [1 2]", res.FailedIndexes)
	}
}

func TestSubmitPartialFailureSameName(t *testing.T) {
	t.Parallel()

	store := &fakeCreator{failCall: 2}
	persons := []models.Person{
		{Name: "Anna", Essenswunsch: models.EssenVegan},
		{Name: "Anna", Essenswunsch: models.EssenEgal},
	}

	res, err := NewSubmitter(store, zerolog.Nop()).Submit(context.Background(), persons, household())
	var pf *PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("error = %v, want PartialFailureError", err)
	}
	if len(pf.FailedIndexes) != 1 || pf.FailedIndexes[0] != 1 {
		t.Fatalf("failed indexes = %v, want [1]", pf.FailedIndexes)
	}
	if len(res.Created) != 1 || res.Created[0].Essenswunsch != models.EssenVegan {
		t.Fatalf("created = %+v", res.Created)
	}
}

func TestForm(t *testing.T) {
	t.Parallel()

	f := NewForm()
	if len(f.Persons) != 1 {
		t.Fatalf("persons = %d, want 1", len(f.Persons))
	}
	if f.RemovePerson(0) {
		t.Fatal("last person must not be removable")
	}
	f.AddPerson()
	f.Persons[1].Name = "B"
	if !f.RemovePerson(0) || len(f.Persons) != 1 || f.Persons[0].Name != "B" {
		t.Fatalf("persons = %+v", f.Persons)
	}
}
