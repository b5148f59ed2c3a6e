package goIdentity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// mockRepository is an in-memory AccountRepository. Update takes the lock
// for the whole read-modify-write, matching the atomicity contract.
type mockRepository struct {
	mu       sync.Mutex
	accounts map[string]Account

	failFind   error
	failUpdate error
}

func newMockRepository() *mockRepository {
	return &mockRepository{accounts: make(map[string]Account)}
}

func (r *mockRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind != nil {
		return Account{}, r.failFind
	}
	for _, a := range r.accounts {
		if a.Email == email {
			return a.Clone(), nil
		}
	}
	return Account{}, ErrUserNotFound
}

func (r *mockRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind != nil {
		return Account{}, r.failFind
	}
	a, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrUserNotFound
	}
	return a.Clone(), nil
}

func (r *mockRepository) Create(_ context.Context, account Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return Account{}, ErrAccountExists
		}
	}
	r.accounts[account.ID] = account.Clone()
	return account.Clone(), nil
}

func (r *mockRepository) Update(_ context.Context, id string, apply func(*Account) error) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return Account{}, r.failUpdate
	}
	a, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrUserNotFound
	}
	working := a.Clone()
	if err := apply(&working); err != nil {
		return Account{}, err
	}
	r.accounts[id] = working.Clone()
	return working, nil
}

func (r *mockRepository) seed(t *testing.T, a Account) Account {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = fmt.Sprintf("acct-%d", len(r.accounts)+1)
	}
	r.accounts[a.ID] = a.Clone()
	return a
}

func (r *mockRepository) get(t *testing.T, id string) Account {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		t.Fatalf("account %s not in repository", id)
	}
	return a.Clone()
}

// pendingCode returns the stored code for an account, failing the test if
// none is pending.
func (r *mockRepository) pendingCode(t *testing.T, id string) PendingCode {
	t.Helper()
	a := r.get(t, id)
	if a.Pending == nil {
		t.Fatalf("account %s has no pending code", id)
	}
	return *a.Pending
}

// mockMailer records sends and signals each one on a channel so tests can
// wait out the delivery goroutine.
type mockMailer struct {
	mu     sync.Mutex
	sent   []Message
	signal chan Message
	fail   error
}

func newMockMailer() *mockMailer {
	return &mockMailer{signal: make(chan Message, 16)}
}

func (m *mockMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	fail := m.fail
	m.mu.Unlock()
	m.signal <- msg
	return fail
}

func (m *mockMailer) waitForMessage(t *testing.T) Message {
	t.Helper()
	select {
	case msg := <-m.signal:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for delivery")
		return Message{}
	}
}

func (m *mockMailer) setFail(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

// plainHasher keeps engine tests fast; the real argon2id hasher has its
// own tests in the password package.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) {
	return "plain$" + plaintext, nil
}

func (plainHasher) Verify(plaintext, digest string) (bool, error) {
	return strings.TrimPrefix(digest, "plain$") == plaintext, nil
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Token.AccessSecret = []byte(strings.Repeat("a", 32))
	cfg.Token.RefreshSecret = []byte(strings.Repeat("r", 32))
	cfg.Token.ResetSecret = []byte(strings.Repeat("p", 32))
	cfg.Audit.Enabled = false
	return cfg
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func newTestEngine(t *testing.T) (*Engine, *mockRepository, *mockMailer) {
	t.Helper()
	repo := newMockRepository()
	mailer := newMockMailer()
	engine, err := New().
		WithConfig(testConfig()).
		WithRepository(repo).
		WithRedis(newTestRedis(t)).
		WithHasher(plainHasher{}).
		WithEmailSender(mailer).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, repo, mailer
}

func requireErrorIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("got error %v, want %v", err, want)
	}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
