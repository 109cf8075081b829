package console

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"wedding-rsvp/internal/directory"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/session"
)

func (c *Console) adminArea(ctx context.Context) error {
	c.reload(ctx)
	for {
		c.println("\nGästeliste:")
		c.println("  1. Alle Gäste anzeigen")
		c.println("  2. Gäste suchen")
		c.println("  3. Statistik")
		c.println("  4. Gast hinzufügen")
		c.println("  5. Gast bearbeiten")
		c.println("  6. Gast löschen")
		c.println("  7. Als Excel exportieren")
		c.println("  8. Neu laden")
		c.println("  9. Abmelden")
		c.println("  0. Zurück")

		command, err := c.ask(ctx, "\nAuswahl (0-9): ")
		if err != nil {
			return err
		}

		switch command {
		case "1":
			c.printGuests(c.dir.Guests())
		case "2":
			err = c.searchGuests(ctx)
		case "3":
			c.printStats(directory.ComputeStats(c.dir.Guests()))
		case "4":
			err = c.addGuest(ctx)
		case "5":
			err = c.editGuest(ctx)
		case "6":
			err = c.deleteGuest(ctx)
		case "7":
			c.exportGuests(ctx)
		case "8":
			c.reload(ctx)
		case "9":
			c.edit.Cancel()
			return c.logout(ctx, session.RoleAdmin)
		case "0":
			c.edit.Cancel()
			return nil
		default:
			c.println("Ungültige Auswahl. Bitte erneut versuchen.")
		}
		if err != nil {
			c.edit.Cancel()
			return err
		}
	}
}

func (c *Console) reload(ctx context.Context) {
	guests, err := c.dir.Load(ctx)
	if err != nil {
		c.printf("❌ %v\n", err)
		return
	}
	c.printf("📋 %d Gäste geladen\n", len(guests))
}

func (c *Console) printGuests(guests []models.Guest) {
	if len(guests) == 0 {
		c.println("\nKeine Gäste gefunden.")
		return
	}

	c.printf("\n📋 Gäste (%d):\n", len(guests))
	c.println(strings.Repeat("-", 60))
	for i, g := range guests {
		c.printf("%2d. %s (%s)\n", i+1, g.Name, g.Attendance().Label())
		if g.Email != "" {
			c.printf("    E-Mail: %s\n", g.Email)
		}
		if g.Essenswunsch != "" {
			c.printf("    Essen: %s\n", g.Essenswunsch)
		}
		if g.Anreise != "" {
			c.printf("    Anreise: %s\n", g.Anreise)
		}
		if meals := mealDays(g); meals != "" {
			c.printf("    Mahlzeiten: %s\n", meals)
		}
		if g.Unterkunft != "" {
			c.printf("    Unterkunft: %s\n", g.Unterkunft)
		}
		if g.EssenMitbringsel != "" {
			c.printf("    Mitbringsel: %s\n", g.EssenMitbringsel)
		}
	}
	c.println(strings.Repeat("-", 60))
}

func mealDays(g models.Guest) string {
	var days []string
	if g.EssenFr {
		days = append(days, "Fr")
	}
	if g.EssenSa {
		days = append(days, "Sa")
	}
	if g.EssenSo {
		days = append(days, "So")
	}
	return strings.Join(days, ", ")
}

func (c *Console) printStats(s directory.Stats) {
	c.println("\n📊 Statistik")
	c.printf("  Zusagen:    %d\n", s.Zusagen)
	c.printf("  Absagen:    %d\n", s.Absagen)
	c.printf("  Ausstehend: %d\n", s.Ausstehend)
	c.printf("  Gesamt:     %d\n", s.Gesamt)
	c.printf("  Anreise:    Freitag %d, Samstag %d, ohne Angabe %d\n",
		s.Anreise[models.AnreiseFreitag], s.Anreise[models.AnreiseSamstag], s.Anreise[""])
	c.printf("  Unterkunft: Hotel %d, vor Ort %d, Camping %d, ohne Angabe %d\n",
		s.Unterkunft[models.UnterkunftHotel], s.Unterkunft[models.UnterkunftVorOrt], s.Unterkunft[models.UnterkunftCamping], s.Unterkunft[""])
	c.printf("  Essen:      Vegan %d, Vegetarisch %d, Egal %d, ohne Angabe %d\n",
		s.Essen[models.EssenVegan], s.Essen[models.EssenVegetarisch], s.Essen[models.EssenEgal], s.Essen[""])
	c.printf("  Mahlzeiten: Fr %d, Sa %d, So %d\n", s.EssenFr, s.EssenSa, s.EssenSo)
}

func (c *Console) searchGuests(ctx context.Context) error {
	term, err := c.ask(ctx, "Suche (Name oder E-Mail): ")
	if err != nil {
		return err
	}
	c.printGuests(directory.Filter(c.dir.Guests(), term))
	return nil
}

// pickGuest asks for a list number of the current list
func (c *Console) pickGuest(ctx context.Context) (models.Guest, bool, error) {
	guests := c.dir.Guests()
	if len(guests) == 0 {
		c.println("Keine Gäste vorhanden.")
		return models.Guest{}, false, nil
	}
	c.printGuests(guests)
	answer, err := c.ask(ctx, "Nummer (leer = abbrechen): ")
	if err != nil || answer == "" {
		return models.Guest{}, false, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(guests) {
		c.println("Ungültige Nummer.")
		return models.Guest{}, false, nil
	}
	return guests[n-1], true, nil
}

func (c *Console) addGuest(ctx context.Context) error {
	var g models.Guest
	if err := c.askGuestFields(ctx, &g); err != nil {
		return err
	}
	created, err := c.dir.Add(ctx, g)
	var le *directory.LoadError
	switch {
	case err == nil, errors.As(err, &le):
		c.printf("✅ %s hinzugefügt\n", created.Name)
		if le != nil {
			c.printf("❌ %v\n", le)
		}
	default:
		c.printf("❌ %v\n", err)
	}
	return nil
}

func (c *Console) editGuest(ctx context.Context) error {
	g, ok, err := c.pickGuest(ctx)
	if err != nil || !ok {
		return err
	}

	c.edit.Begin(g)
	for {
		var ferr error
		c.edit.Change(func(draft *models.Guest) {
			ferr = c.askGuestFields(ctx, draft)
		})
		if ferr != nil {
			return ferr
		}

		err := c.edit.Save(ctx, c.dir)
		if err == nil {
			c.println("✅ Gespeichert")
			return nil
		}
		c.printf("❌ %v\n", err)
		if c.edit.Viewing() {
			return nil
		}

		retry, err := c.askYesNo(ctx, "Erneut bearbeiten? (ja/nein)", true)
		if err != nil {
			return err
		}
		if !retry {
			c.edit.Cancel()
			c.println("Bearbeitung verworfen.")
			return nil
		}
	}
}

func (c *Console) askGuestFields(ctx context.Context, g *models.Guest) error {
	var err error
	if g.Name, err = c.askDefault(ctx, "Name", g.Name); err != nil {
		return err
	}
	if g.Email, err = c.askDefault(ctx, "E-Mail", g.Email); err != nil {
		return err
	}
	for {
		answer, err := c.askDefault(ctx, "Essenswunsch (1 = Vegan, 2 = Vegetarisch, 3 = Egal)", string(g.Essenswunsch))
		if err != nil {
			return err
		}
		if answer == "" {
			break
		}
		if e, ok := parseEssenswunsch(answer); ok {
			g.Essenswunsch = e
			break
		}
		c.println("Bitte 1, 2 oder 3 eingeben.")
	}
	for {
		answer, err := c.askDefault(ctx, "Status (ja/nein/offen)", statusWord(g.Attendance()))
		if err != nil {
			return err
		}
		if a, ok := parseAttendance(answer); ok {
			g.Dabei = a.Bool()
			break
		}
		c.println("Bitte ja, nein oder offen eingeben.")
	}
	for {
		answer, err := c.askDefault(ctx, "Anreise (1 = Freitag, 2 = Samstag, - = keine Angabe)", string(g.Anreise))
		if err != nil {
			return err
		}
		if answer == "" {
			break
		}
		if a, ok := parseAnreise(answer); ok {
			g.Anreise = a
			break
		}
		c.println("Bitte 1, 2 oder - eingeben.")
	}
	if g.EssenFr, err = c.askYesNo(ctx, "Essen Freitag? (ja/nein)", g.EssenFr); err != nil {
		return err
	}
	if g.EssenSa, err = c.askYesNo(ctx, "Essen Samstag? (ja/nein)", g.EssenSa); err != nil {
		return err
	}
	if g.EssenSo, err = c.askYesNo(ctx, "Essen Sonntag? (ja/nein)", g.EssenSo); err != nil {
		return err
	}
	for {
		answer, err := c.askDefault(ctx, "Unterkunft (1 = Hotel, 2 = vor Ort, 3 = Camping, - = keine Angabe)", string(g.Unterkunft))
		if err != nil {
			return err
		}
		if answer == "" {
			break
		}
		if u, ok := parseUnterkunft(answer); ok {
			g.Unterkunft = u
			break
		}
		c.println("Bitte 1, 2, 3 oder - eingeben.")
	}
	g.EssenMitbringsel, err = c.askDefault(ctx, "Mitbringsel", g.EssenMitbringsel)
	return err
}

func statusWord(a models.Attendance) string {
	switch a {
	case models.AttendanceYes:
		return "ja"
	case models.AttendanceNo:
		return "nein"
	}
	return "offen"
}

func (c *Console) deleteGuest(ctx context.Context) error {
	g, ok, err := c.pickGuest(ctx)
	if err != nil || !ok {
		return err
	}

	var askErr error
	err = c.dir.Delete(ctx, g.ID, g.Name, func(prompt string) bool {
		yes, err := c.askYesNo(ctx, prompt+" (ja/nein)", false)
		askErr = err
		return err == nil && yes
	})
	if askErr != nil {
		return askErr
	}

	var le *directory.LoadError
	switch {
	case err == nil:
		c.printf("🗑️  %s gelöscht\n", g.Name)
	case errors.Is(err, directory.ErrNotConfirmed):
		c.println("Nicht gelöscht.")
	case errors.As(err, &le):
		c.printf("🗑️  %s gelöscht\n", g.Name)
		c.printf("❌ %v\n", le)
	default:
		c.printf("❌ %v\n", err)
	}
	return nil
}

func (c *Console) exportGuests(ctx context.Context) {
	path, err := c.dir.Export(ctx, c.cfg.ExportDir)
	if err != nil {
		c.printf("❌ %v\n", err)
		return
	}
	c.printf("✅ Exportiert nach %s\n", path)
}
