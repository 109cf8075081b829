// Package console is the interactive terminal front end for guests and
// the couple.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"wedding-rsvp/internal/directory"
	"wedding-rsvp/internal/rsvp"
	"wedding-rsvp/internal/session"

	"github.com/rs/zerolog"
)

// errExpired ends an area whose session ran out
var errExpired = errors.New("Sitzung abgelaufen")

// Config holds the texts shown in the console
type Config struct {
	CoupleNames string
	WeddingDate string
	ExportDir   string
}

// Console runs the menus on top of a line based input
type Console struct {
	out       io.Writer
	lines     chan string
	sessions  *session.Manager
	submitter *rsvp.Submitter
	dir       *directory.Directory
	cfg       Config
	log       zerolog.Logger

	form rsvp.Form
	edit directory.EditState
}

// New creates a console reading from in and writing to out
func New(in io.Reader, out io.Writer, sessions *session.Manager, submitter *rsvp.Submitter, dir *directory.Directory, cfg Config, log zerolog.Logger) *Console {
	c := &Console{
		out:       out,
		lines:     make(chan string),
		sessions:  sessions,
		submitter: submitter,
		dir:       dir,
		cfg:       cfg,
		log:       log.With().Str("component", "console").Logger(),
		form:      rsvp.NewForm(),
	}
	go c.scan(in)
	return c
}

func (c *Console) scan(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	close(c.lines)
}

// readLine waits for the next input line. It returns io.EOF when the input
// ended and errExpired when ctx was cancelled by the session watcher.
func (c *Console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		if errors.Is(context.Cause(ctx), errExpired) {
			return "", errExpired
		}
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (c *Console) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	return c.readLine(ctx)
}

// askDefault shows def and returns it when the answer is empty
func (c *Console) askDefault(ctx context.Context, prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", prompt, def)
	} else {
		prompt += ": "
	}
	answer, err := c.ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Run shows the main menu until the input ends or ctx is cancelled
func (c *Console) Run(ctx context.Context) error {
	c.println("💍 Hochzeit " + c.cfg.CoupleNames)
	if c.cfg.WeddingDate != "" {
		c.println("📅 " + c.cfg.WeddingDate)
	}
	c.println(strings.Repeat("=", 30))

	for {
		c.println("\nMenü:")
		c.println("  1. Rückmeldung (Gäste)")
		c.println("  2. Gästeliste (Brautpaar)")
		c.println("  3. Beenden")

		command, err := c.ask(ctx, "\nAuswahl (1-3): ")
		if err != nil {
			return ignoreEOF(err)
		}

		switch command {
		case "1":
			err = c.area(ctx, session.RoleGuest, c.guestArea)
		case "2":
			err = c.area(ctx, session.RoleAdmin, c.adminArea)
		case "3":
			c.println("Tschüss! 👋")
			return nil
		default:
			c.println("Ungültige Auswahl. Bitte erneut versuchen.")
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// area gates fn behind the role's password and runs it under a context that
// is cancelled when the session expires.
func (c *Console) area(ctx context.Context, role session.Role, fn func(ctx context.Context) error) error {
	ok, err := c.gate(ctx, role)
	if err != nil || !ok {
		return err
	}

	areaCtx, cancel := context.WithCancelCause(ctx)
	watchDone := make(chan struct{})
	defer func() {
		cancel(nil)
		<-watchDone
	}()
	go func() {
		defer close(watchDone)
		err := c.sessions.Watch(areaCtx, role, func() {
			cancel(errExpired)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			c.log.Error().Err(err).Str("role", string(role)).Msg("Session watcher stopped")
		}
	}()

	err = fn(areaCtx)
	if errors.Is(err, errExpired) {
		c.println("\n⏰ Die Sitzung ist abgelaufen. Bitte erneut anmelden.")
		return nil
	}
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return nil
	}
	return err
}

// gate asks for the password until it matches; an empty answer goes back
func (c *Console) gate(ctx context.Context, role session.Role) (bool, error) {
	ok, err := c.sessions.IsAuthorized(ctx, role)
	if err != nil {
		c.printf("❌ Sitzung konnte nicht geprüft werden: %v\n", err)
	}
	if ok {
		return true, nil
	}

	for {
		password, err := c.ask(ctx, "🔒 Passwort (leer = zurück): ")
		if err != nil {
			return false, err
		}
		if password == "" {
			return false, nil
		}
		err = c.sessions.Login(ctx, role, password)
		switch {
		case err == nil:
			c.println("✅ Angemeldet")
			return true, nil
		case errors.Is(err, session.ErrWrongPassword):
			c.println("❌ Falsches Passwort")
		default:
			return false, err
		}
	}
}

func (c *Console) logout(ctx context.Context, role session.Role) error {
	if err := c.sessions.Logout(context.WithoutCancel(ctx), role); err != nil {
		c.printf("❌ Abmelden fehlgeschlagen: %v\n", err)
		return nil
	}
	c.println("👋 Abgemeldet")
	return nil
}
