package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/storage"

	"github.com/rs/zerolog"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guests.db")
	store, err := Open(context.Background(), "sqlite3", path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	base := time.Date(2026, time.June, 12, 15, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return store
}

func TestOpenRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "sqlite3", "", zerolog.Nop()); err == nil {
		t.Fatal("expected empty dsn error")
	}
	if _, err := Open(context.Background(), "mysql", "x", zerolog.Nop()); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "guests.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), "sqlite3", path, zerolog.Nop())
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		_ = store.Close()
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	no := false
	input := models.Guest{
		Name:             "Jan-Paul",
		Email:            "jp@example.com",
		Essenswunsch:     models.EssenVegetarisch,
		Dabei:            &no,
		Anreise:          models.AnreiseSamstag,
		EssenSa:          true,
		EssenSo:          true,
		Unterkunft:       models.UnterkunftHotel,
		EssenMitbringsel: "Käsewürfel",
	}
	created, err := store.CreateGuest(ctx, input)
	if err != nil {
		t.Fatalf("create guest: %v", err)
	}

	got, err := store.GetGuest(ctx, created.ID)
	if err != nil {
		t.Fatalf("get guest: %v", err)
	}
	if !got.SameFields(input) {
		t.Fatalf("got = %+v, want fields of %+v", got, input)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created.CreatedAt)
	}

	if _, err := store.GetGuest(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListOrdersByCreation(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	for _, name := range []string{"Anna", "Bernd", "Clara"} {
		if _, err := store.CreateGuest(ctx, models.Guest{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	guests, err := store.ListGuests(ctx)
	if err != nil {
		t.Fatalf("list guests: %v", err)
	}
	if len(guests) != 3 {
		t.Fatalf("len = %d, want 3", len(guests))
	}
	for i, want := range []string{"Anna", "Bernd", "Clara"} {
		if guests[i].Name != want {
			t.Fatalf("guests[%d] = %q, want %q", i, guests[i].Name, want)
		}
		if guests[i].Dabei != nil {
			t.Fatalf("guests[%d] dabei = %v, want pending", i, *guests[i].Dabei)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	created, err := store.CreateGuest(ctx, models.Guest{Name: "Anna"})
	if err != nil {
		t.Fatalf("create guest: %v", err)
	}

	yes := true
	change := created
	change.Dabei = &yes
	change.EssenFr = true
	if _, err := store.UpdateGuest(ctx, change); err != nil {
		t.Fatalf("update guest: %v", err)
	}
	got, _ := store.GetGuest(ctx, created.ID)
	if got.Attendance() != models.AttendanceYes || !got.EssenFr {
		t.Fatalf("guest = %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatal("expected updated_at to advance")
	}

	if _, err := store.UpdateGuest(ctx, models.Guest{ID: "missing", Name: "X"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update missing = %v, want %v", err, storage.ErrNotFound)
	}

	if err := store.DeleteGuest(ctx, created.ID); err != nil {
		t.Fatalf("delete guest: %v", err)
	}
	if err := store.DeleteGuest(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete twice = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestExtractUp(t *testing.T) {
	got := extractUp("-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;")
	if got != "\nCREATE TABLE a (x INT);\n" {
		t.Fatalf("extractUp = %q", got)
	}
	if extractUp("SELECT 1;") != "SELECT 1;" {
		t.Fatal("content without markers must be returned as is")
	}
}
