// Package session gates the guest and admin areas behind shared passwords
// with time-limited sessions.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrWrongPassword = errors.New("falsches Passwort")
	ErrUnknownRole   = errors.New("unknown session role")
)

// Role selects one of the independently gated areas
type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Policy describes how long a role's session lasts and where it is persisted
type Policy struct {
	Duration time.Duration
	Poll     time.Duration
	FlagKey  string
	StartKey string
}

// DefaultPolicies returns the built-in policy of every role.
func DefaultPolicies() map[Role]Policy {
	return map[Role]Policy{
		RoleGuest: {
			Duration: 30 * time.Minute,
			Poll:     10 * time.Second,
			FlagKey:  "isAuthenticated",
			StartKey: "sessionStart",
		},
		RoleAdmin: {
			Duration: 60 * time.Minute,
			Poll:     30 * time.Second,
			FlagKey:  "adminAuthenticated",
			StartKey: "adminSessionStart",
		},
	}
}

// Manager checks passwords and tracks session start times
type Manager struct {
	kv        KV
	passwords map[Role]string
	policies  map[Role]Policy
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithPolicy overrides the duration and poll interval of a role. Empty keys
// keep the defaults.
func WithPolicy(role Role, p Policy) Option {
	return func(m *Manager) {
		def := m.policies[role]
		if p.FlagKey == "" {
			p.FlagKey = def.FlagKey
		}
		if p.StartKey == "" {
			p.StartKey = def.StartKey
		}
		m.policies[role] = p
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log.With().Str("component", "session").Logger() }
}

// NewManager creates a manager for the roles that have a password
func NewManager(kv KV, passwords map[Role]string, opts ...Option) *Manager {
	m := &Manager{
		kv:        kv,
		passwords: passwords,
		policies:  DefaultPolicies(),
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) policy(role Role) (Policy, error) {
	if _, ok := m.passwords[role]; !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	p, ok := m.policies[role]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return p, nil
}

// Policy returns the effective policy of role
func (m *Manager) Policy(role Role) (Policy, error) {
	return m.policy(role)
}

// IsAuthorized reports whether role has a live session. A set flag without a
// start time starts the session now. Expired sessions are cleared.
func (m *Manager) IsAuthorized(ctx context.Context, role Role) (bool, error) {
	p, err := m.policy(role)
	if err != nil {
		return false, err
	}

	flag, ok, err := m.kv.Get(ctx, p.FlagKey)
	if err != nil {
		return false, fmt.Errorf("read session flag: %w", err)
	}
	if !ok || flag != "true" {
		return false, nil
	}

	now := m.now()
	raw, ok, err := m.kv.Get(ctx, p.StartKey)
	if err != nil {
		return false, fmt.Errorf("read session start: %w", err)
	}
	start, perr := strconv.ParseInt(raw, 10, 64)
	if !ok || perr != nil {
		if err := m.kv.Set(ctx, p.StartKey, formatMillis(now)); err != nil {
			return false, fmt.Errorf("write session start: %w", err)
		}
		return true, nil
	}

	if now.Sub(time.UnixMilli(start)) > p.Duration {
		m.log.Info().Str("role", string(role)).Msg("Session expired")
		if err := m.kv.Delete(ctx, p.FlagKey, p.StartKey); err != nil {
			return false, fmt.Errorf("clear session: %w", err)
		}
		return false, nil
	}
	return true, nil
}

// Login starts a session for role when password matches
func (m *Manager) Login(ctx context.Context, role Role, password string) error {
	p, err := m.policy(role)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(m.passwords[role])) != 1 {
		m.log.Warn().Str("role", string(role)).Msg("Wrong password")
		return ErrWrongPassword
	}

	if err := m.kv.Set(ctx, p.FlagKey, "true"); err != nil {
		return fmt.Errorf("write session flag: %w", err)
	}
	if err := m.kv.Set(ctx, p.StartKey, formatMillis(m.now())); err != nil {
		return fmt.Errorf("write session start: %w", err)
	}
	m.log.Info().Str("role", string(role)).Msg("Logged in")
	return nil
}

// Logout ends the session of role
func (m *Manager) Logout(ctx context.Context, role Role) error {
	p, err := m.policy(role)
	if err != nil {
		return err
	}
	if err := m.kv.Delete(ctx, p.FlagKey, p.StartKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Watch re-checks the session of role every poll interval and calls onExpire
// each time a live session turns unauthorized. It blocks until ctx is done.
func (m *Manager) Watch(ctx context.Context, role Role, onExpire func()) error {
	p, err := m.policy(role)
	if err != nil {
		return err
	}

	live, err := m.IsAuthorized(ctx, role)
	if err != nil {
		m.log.Error().Err(err).Str("role", string(role)).Msg("Session check failed")
	}

	ticker := time.NewTicker(p.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		ok, err := m.IsAuthorized(ctx, role)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.log.Error().Err(err).Str("role", string(role)).Msg("Session check failed")
			continue
		}
		if live && !ok {
			onExpire()
		}
		live = ok
	}
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
