package session

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(kv KV, clock *fakeClock, opts ...Option) *Manager {
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewManager(kv, map[Role]string{RoleGuest: "t&j", RoleAdmin: "admin2025"}, opts...)
}

func TestLoginAndExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	kv := NewMemoryKV()
	m := newTestManager(kv, clock)

	if ok, err := m.IsAuthorized(ctx, RoleGuest); err != nil || ok {
		t.Fatalf("before login: authorized = %v, err = %v", ok, err)
	}
	if err := m.Login(ctx, RoleGuest, "t&j"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if ok, _ := m.IsAuthorized(ctx, RoleGuest); !ok {
		t.Fatal("expected authorized after login")
	}
	if ok, _ := m.IsAuthorized(ctx, RoleAdmin); ok {
		t.Fatal("guest login must not authorize admin")
	}

	clock.Advance(30 * time.Minute)
	if ok, _ := m.IsAuthorized(ctx, RoleGuest); !ok {
		t.Fatal("session must still be valid at exactly its duration")
	}

	clock.Advance(time.Millisecond)
	if ok, _ := m.IsAuthorized(ctx, RoleGuest); ok {
		t.Fatal("expected expired session")
	}
	for _, key := range []string{"isAuthenticated", "sessionStart"} {
		if _, found, _ := kv.Get(ctx, key); found {
			t.Fatalf("key %q was not cleared", key)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	m := newTestManager(kv, &fakeClock{now: time.Now()})

	err := m.Login(ctx, RoleAdmin, "t&j")
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("error = %v, want %v", err, ErrWrongPassword)
	}
	if _, found, _ := kv.Get(ctx, "adminAuthenticated"); found {
		t.Fatal("failed login must not persist a flag")
	}
}

func TestUnknownRole(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryKV(), map[Role]string{RoleGuest: "x"})
	_, err := m.IsAuthorized(context.Background(), RoleAdmin)
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("error = %v, want %v", err, ErrUnknownRole)
	}
}

func TestFlagWithoutStartStartsNow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.UnixMilli(1_750_000_000_000)}
	kv := NewMemoryKV()
	if err := kv.Set(ctx, "adminAuthenticated", "true"); err != nil {
		t.Fatal(err)
	}
	m := newTestManager(kv, clock)

	if ok, _ := m.IsAuthorized(ctx, RoleAdmin); !ok {
		t.Fatal("expected authorized when start is missing")
	}
	got, _, _ := kv.Get(ctx, "adminSessionStart")
	if want := strconv.FormatInt(clock.Now().UnixMilli(), 10); got != want {
		t.Fatalf("start = %q, want %q", got, want)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(NewMemoryKV(), &fakeClock{now: time.Now()})
	if err := m.Login(ctx, RoleAdmin, "admin2025"); err != nil {
		t.Fatal(err)
	}
	if err := m.Logout(ctx, RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.IsAuthorized(ctx, RoleAdmin); ok {
		t.Fatal("expected logged out")
	}
}

func TestWithPolicyKeepsKeys(t *testing.T) {
	t.Parallel()

	m := newTestManager(NewMemoryKV(), &fakeClock{now: time.Now()}, WithPolicy(RoleGuest, Policy{Duration: time.Minute, Poll: time.Second}))
	p, err := m.Policy(RoleGuest)
	if err != nil {
		t.Fatal(err)
	}
	if p.Duration != time.Minute || p.FlagKey != "isAuthenticated" || p.StartKey != "sessionStart" {
		t.Fatalf("policy = %+v", p)
	}
}

func TestWatchCallsOnExpire(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{now: time.Now()}
	m := newTestManager(NewMemoryKV(), clock, WithPolicy(RoleGuest, Policy{Duration: time.Minute, Poll: 5 * time.Millisecond}))
	if err := m.Login(ctx, RoleGuest, "t&j"); err != nil {
		t.Fatal(err)
	}

	expired := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- m.Watch(ctx, RoleGuest, func() { expired <- struct{}{} })
	}()

	// let the watcher observe the live session first
	time.Sleep(30 * time.Millisecond)
	clock.Advance(2 * time.Minute)
	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("onExpire was not called")
	}

	// already expired: no second call until a new login
	select {
	case <-expired:
		t.Fatal("onExpire called twice for one expiry")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("watch returned %v, want %v", err, context.Canceled)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestFileKVPersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	kv, err := NewFileKV(path)
	if err != nil {
		t.Fatal(err)
	}
	clock := &fakeClock{now: time.Now()}
	if err := newTestManager(kv, clock).Login(ctx, RoleGuest, "t&j"); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileKV(path)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := newTestManager(reopened, clock).IsAuthorized(ctx, RoleGuest); !ok {
		t.Fatal("session did not survive reopen")
	}

	if err := reopened.Delete(ctx, "isAuthenticated", "sessionStart"); err != nil {
		t.Fatal(err)
	}
	again, err := NewFileKV(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, found, _ := again.Get(ctx, "isAuthenticated"); found {
		t.Fatal("deleted key came back")
	}
}
