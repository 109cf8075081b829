package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wedding-rsvp/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
)

// DefaultCountryCode replaces the trunk prefix 0 of national numbers
const DefaultCountryCode = "49"

// WhatsAppConfig configures the couple's WhatsApp notifications
type WhatsAppConfig struct {
	DataDir      string
	NotifyNumber string
}

// WhatsApp sends new RSVP entries to the couple's WhatsApp number
type WhatsApp struct {
	client *whatsmeow.Client
	cfg    WhatsAppConfig
	log    zerolog.Logger
}

// NewWhatsApp creates a WhatsApp notifier backed by a local device store
func NewWhatsApp(ctx context.Context, cfg WhatsAppConfig, log zerolog.Logger) (*WhatsApp, error) {
	logger := log.With().Str("component", "WhatsApp").Logger()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	// Use nil logger - sqlstore will use a no-op logger by default
	dbPath := filepath.Join(cfg.DataDir, "whatsmeow.db")
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", dbPath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	w := &WhatsApp{
		client: whatsmeow.NewClient(deviceStore, nil),
		cfg:    cfg,
		log:    logger,
	}
	w.client.AddEventHandler(w.eventHandler)
	return w, nil
}

// NormalizePhoneNumber strips formatting and converts national numbers
// (leading 0) to international format without the plus sign
func NormalizePhoneNumber(phoneNumber string) string {
	replacer := strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "", "/", "")
	phoneNumber = replacer.Replace(phoneNumber)

	if strings.HasPrefix(phoneNumber, "00") {
		return phoneNumber[2:]
	}
	if strings.HasPrefix(phoneNumber, "0") {
		return DefaultCountryCode + phoneNumber[1:]
	}
	// country code followed by the trunk prefix, e.g. 490171...
	if strings.HasPrefix(phoneNumber, DefaultCountryCode+"0") {
		return DefaultCountryCode + phoneNumber[len(DefaultCountryCode)+1:]
	}
	return phoneNumber
}

// Connect connects to WhatsApp, printing a pairing QR code on first use
func (w *WhatsApp) Connect() error {
	if w.client.Store.ID != nil {
		if err := w.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, _ := w.client.GetQRChannel(context.Background())
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range qrChan {
		if evt.Event != "code" {
			w.log.Info().Str("event", evt.Event).Msg("Login event")
			continue
		}
		q, err := qrcode.New(evt.Code, qrcode.Medium)
		if err != nil {
			fmt.Printf("QR Code: %s\n", evt.Code)
			continue
		}
		fmt.Println("\n" + q.ToSmallString(false))
		fmt.Println("📱 Bitte den QR-Code mit WhatsApp scannen:")
		fmt.Println("   Einstellungen > Verknüpfte Geräte > Gerät hinzufügen")
	}
	return nil
}

// Disconnect disconnects from WhatsApp
func (w *WhatsApp) Disconnect() {
	w.client.Disconnect()
}

// GuestCreated sends the new RSVP entry to the couple
func (w *WhatsApp) GuestCreated(ctx context.Context, g models.Guest) error {
	return w.SendMessage(ctx, w.cfg.NotifyNumber, CoupleMessage(g))
}

// SendMessage sends a simple text message
func (w *WhatsApp) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = NormalizePhoneNumber(phoneNumber)

	// Verify the number is on WhatsApp before sending
	resp, err := w.client.IsOnWhatsApp(ctx, []string{"+" + phoneNumber})
	if err != nil {
		return fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	jid := resp[0].JID

	w.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Attempting to send message")

	sent, err := w.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", jid.String(), err)
	}
	w.log.Info().Str("id", string(sent.ID)).Time("timestamp", sent.Timestamp).Msg("Message sent")
	return nil
}

// eventHandler handles connection lifecycle events
func (w *WhatsApp) eventHandler(evt interface{}) {
	switch evt.(type) {
	case *events.Connected:
		w.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		w.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		w.log.Warn().Msg("Logged out from WhatsApp")
	}
}
