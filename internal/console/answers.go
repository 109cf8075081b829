package console

import (
	"slices"
	"strings"
	"unicode"

	"wedding-rsvp/internal/models"
)

var (
	pendingWords = []string{"offen", "weiß nicht", "weiss nicht", "vielleicht", "maybe", "?"}
	noWords      = []string{"nein", "nicht", "absage", "❌"}
	yesWords     = []string{"yes", "jep", "zusage", "dabei", "komme", "✅"}

	// short keywords only count as whole words
	noShort  = []string{"no"}
	yesShort = []string{"ja"}
)

// parseAttendance reads an attendance answer. Pending phrases are checked
// first since "weiß nicht" also contains a decline keyword.
func parseAttendance(text string) (models.Attendance, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	switch {
	case text == "":
		return models.AttendancePending, false
	case containsAny(text, pendingWords...):
		return models.AttendancePending, true
	case containsAny(text, noWords...), hasWord(text, noShort...):
		return models.AttendanceNo, true
	case containsAny(text, yesWords...), hasWord(text, yesShort...):
		return models.AttendanceYes, true
	}
	return models.AttendancePending, false
}

// parseYesNo reads a yes/no answer
func parseYesNo(text string) (bool, bool) {
	a, ok := parseAttendance(text)
	if !ok || a == models.AttendancePending {
		return false, false
	}
	return a == models.AttendanceYes, true
}

func parseEssenswunsch(text string) (models.Essenswunsch, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "vegan":
		return models.EssenVegan, true
	case "2", "vegetarisch":
		return models.EssenVegetarisch, true
	case "3", "egal":
		return models.EssenEgal, true
	}
	return "", false
}

func parseAnreise(text string) (models.Anreise, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "-", "0", "keine":
		return "", true
	case "1", "freitag", "fr":
		return models.AnreiseFreitag, true
	case "2", "samstag", "sa":
		return models.AnreiseSamstag, true
	}
	return "", false
}

func parseUnterkunft(text string) (models.Unterkunft, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "-", "0", "keine":
		return "", true
	case "1", "hotel":
		return models.UnterkunftHotel, true
	case "2", "vor_ort", "vor ort":
		return models.UnterkunftVorOrt, true
	case "3", "camping":
		return models.UnterkunftCamping, true
	}
	return "", false
}

// containsAny checks if the text contains any of the given keywords
func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// hasWord checks if one of the words of text equals a keyword
func hasWord(text string, keywords ...string) bool {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, keyword := range keywords {
		if slices.Contains(words, keyword) {
			return true
		}
	}
	return false
}
