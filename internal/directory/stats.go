package directory

import "wedding-rsvp/internal/models"

// Stats are the dashboard counters over a guest list
type Stats struct {
	Zusagen    int
	Absagen    int
	Ausstehend int
	Gesamt     int

	Anreise    map[models.Anreise]int
	Unterkunft map[models.Unterkunft]int
	Essen      map[models.Essenswunsch]int

	EssenFr int
	EssenSa int
	EssenSo int
}

// ComputeStats counts guests per attendance state and per household choice.
// Unset choices are counted under the empty key.
func ComputeStats(guests []models.Guest) Stats {
	s := Stats{
		Gesamt:     len(guests),
		Anreise:    make(map[models.Anreise]int),
		Unterkunft: make(map[models.Unterkunft]int),
		Essen:      make(map[models.Essenswunsch]int),
	}
	for _, g := range guests {
		switch g.Attendance() {
		case models.AttendanceYes:
			s.Zusagen++
		case models.AttendanceNo:
			s.Absagen++
		default:
			s.Ausstehend++
		}
		s.Anreise[g.Anreise]++
		s.Unterkunft[g.Unterkunft]++
		s.Essen[g.Essenswunsch]++
		if g.EssenFr {
			s.EssenFr++
		}
		if g.EssenSa {
			s.EssenSa++
		}
		if g.EssenSo {
			s.EssenSo++
		}
	}
	return s
}
