package console

import (
	"testing"

	"wedding-rsvp/internal/models"
)

func TestParseAttendance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   models.Attendance
		wantOK bool
	}{
		{"ja", models.AttendanceYes, true},
		{"Yes!", models.AttendanceYes, true},
		{"✅", models.AttendanceYes, true},
		{"ich bin dabei", models.AttendanceYes, true},
		{"ja, mit Leonora", models.AttendanceYes, true},
		{"No.", models.AttendanceNo, true},
		{"nein", models.AttendanceNo, true},
		{"leider nicht dabei", models.AttendanceNo, true},
		{"❌", models.AttendanceNo, true},
		{"offen", models.AttendancePending, true},
		{"weiß nicht", models.AttendancePending, true},
		{"", models.AttendancePending, false},
		{"hmm", models.AttendancePending, false},
		{"Jan", models.AttendancePending, false},
	}
	for _, tt := range tests {
		got, ok := parseAttendance(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("parseAttendance(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseChoices(t *testing.T) {
	t.Parallel()

	if e, ok := parseEssenswunsch("2"); !ok || e != models.EssenVegetarisch {
		t.Fatalf("essenswunsch = %q, %v", e, ok)
	}
	if _, ok := parseEssenswunsch("fisch"); ok {
		t.Fatal("unknown diet accepted")
	}
	if a, ok := parseAnreise("Samstag"); !ok || a != models.AnreiseSamstag {
		t.Fatalf("anreise = %q, %v", a, ok)
	}
	if a, ok := parseAnreise("-"); !ok || a != "" {
		t.Fatalf("anreise none = %q, %v", a, ok)
	}
	if u, ok := parseUnterkunft("vor ort"); !ok || u != models.UnterkunftVorOrt {
		t.Fatalf("unterkunft = %q, %v", u, ok)
	}
	if _, ok := parseYesNo("offen"); ok {
		t.Fatal("pending is not a yes/no answer")
	}
}
