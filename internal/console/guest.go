package console

import (
	"context"
	"errors"
	"strings"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/rsvp"
	"wedding-rsvp/internal/session"
)

func (c *Console) guestArea(ctx context.Context) error {
	for {
		c.println("\nGäste:")
		c.println("  1. Rückmeldung abgeben")
		c.println("  2. Abmelden")
		c.println("  3. Zurück")

		command, err := c.ask(ctx, "\nAuswahl (1-3): ")
		if err != nil {
			return err
		}
		switch command {
		case "1":
			if err := c.fillForm(ctx); err != nil {
				return err
			}
			c.submitForm(ctx)
		case "2":
			return c.logout(ctx, session.RoleGuest)
		case "3":
			return nil
		default:
			c.println("Ungültige Auswahl. Bitte erneut versuchen.")
		}
	}
}

// fillForm walks through the form; current values are offered as defaults
func (c *Console) fillForm(ctx context.Context) error {
	f := &c.form
	for i := 0; i < len(f.Persons); i++ {
		c.printf("\n👤 Person %d\n", i+1)
		if err := c.askPerson(ctx, &f.Persons[i]); err != nil {
			return err
		}
		if i == len(f.Persons)-1 {
			more, err := c.askYesNo(ctx, "Weitere Person hinzufügen? (ja/nein)", false)
			if err != nil {
				return err
			}
			if more {
				f.AddPerson()
			}
		}
	}

	c.println("\n🏠 Gemeinsame Angaben")
	h := &f.Household
	var err error
	if h.Email, err = c.askDefault(ctx, "E-Mail", h.Email); err != nil {
		return err
	}
	for {
		answer, err := c.askDefault(ctx, "Anreise (1 = Freitag, 2 = Samstag, - = keine Angabe)", string(h.Anreise))
		if err != nil {
			return err
		}
		if a, ok := parseAnreise(answer); ok {
			h.Anreise = a
			break
		}
		c.println("Bitte 1, 2 oder - eingeben.")
	}
	if h.EssenFr, err = c.askYesNo(ctx, "Essen am Freitag? (ja/nein)", h.EssenFr); err != nil {
		return err
	}
	if h.EssenSa, err = c.askYesNo(ctx, "Essen am Samstag? (ja/nein)", h.EssenSa); err != nil {
		return err
	}
	if h.EssenSo, err = c.askYesNo(ctx, "Essen am Sonntag? (ja/nein)", h.EssenSo); err != nil {
		return err
	}
	for {
		answer, err := c.askDefault(ctx, "Unterkunft (1 = Hotel, 2 = vor Ort, 3 = Camping, - = keine Angabe)", string(h.Unterkunft))
		if err != nil {
			return err
		}
		if u, ok := parseUnterkunft(answer); ok {
			h.Unterkunft = u
			break
		}
		c.println("Bitte 1, 2, 3 oder - eingeben.")
	}
	h.EssenMitbringsel, err = c.askDefault(ctx, "Was bringst du zum Buffet mit? (optional)", h.EssenMitbringsel)
	return err
}

func (c *Console) askPerson(ctx context.Context, p *models.Person) error {
	var err error
	if p.Name, err = c.askDefault(ctx, "Name", p.Name); err != nil {
		return err
	}
	for {
		answer, err := c.askDefault(ctx, "Essenswunsch (1 = Vegan, 2 = Vegetarisch, 3 = Egal)", string(p.Essenswunsch))
		if err != nil {
			return err
		}
		if e, ok := parseEssenswunsch(answer); ok {
			p.Essenswunsch = e
			break
		}
		c.println("Bitte 1, 2 oder 3 eingeben.")
	}
	for {
		answer, err := c.ask(ctx, "Bist du dabei? (ja/nein/offen): ")
		if err != nil {
			return err
		}
		if a, ok := parseAttendance(answer); ok {
			p.Dabei = a
			return nil
		}
		c.println("Bitte ja, nein oder offen eingeben.")
	}
}

func (c *Console) askYesNo(ctx context.Context, prompt string, def bool) (bool, error) {
	d := "nein"
	if def {
		d = "ja"
	}
	for {
		answer, err := c.askDefault(ctx, prompt, d)
		if err != nil {
			return false, err
		}
		if v, ok := parseYesNo(answer); ok {
			return v, nil
		}
		c.println("Bitte ja oder nein eingeben.")
	}
}

// submitForm sends the form. After a partial failure only the failed
// persons stay in the form so a retry does not duplicate records.
func (c *Console) submitForm(ctx context.Context) {
	c.println("\n📨 Sende Rückmeldung...")
	res, err := c.submitter.Submit(ctx, c.form.Persons, c.form.Household)

	var verrs rsvp.ValidationErrors
	var partial *rsvp.PartialFailureError
	switch {
	case err == nil:
		c.printf("✅ Danke! %d Rückmeldung(en) gespeichert.\n", len(res.Created))
		c.form = rsvp.NewForm()
	case errors.As(err, &verrs):
		c.println("❌ Bitte die Angaben prüfen:")
		for _, e := range verrs {
			c.printf("   - %s: %s\n", e.Field, e.Message)
		}
	case errors.As(err, &partial):
		c.printf("❌ %s\n", partial.Error())
		if len(res.Created) > 0 {
			c.printf("   Gespeichert: %s\n", createdNames(res.Created))
		}
		c.form.Persons = keepFailed(c.form.Persons, partial.FailedIndexes)
	default:
		c.printf("❌ Fehler beim Senden: %v\n", err)
	}
}

func createdNames(guests []models.Guest) string {
	names := make([]string, len(guests))
	for i, g := range guests {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

func keepFailed(persons []models.Person, failed []int) []models.Person {
	out := make([]models.Person, 0, len(failed))
	for _, i := range failed {
		if i >= 0 && i < len(persons) {
			out = append(out, persons[i])
		}
	}
	if len(out) == 0 {
		return persons
	}
	return out
}
