package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/driftpad/driftpad"
	"github.com/driftpad/driftpad/internal/domain"
)

type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	gets     int
	puts     int
	getErr   error
	putErr   error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: map[string]domain.Account{}}
}

func (m *mockAccountStore) Get(ctx context.Context, address string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return domain.Account{}, m.getErr
	}
	account, ok := m.accounts[address]
	if !ok {
		return domain.Account{}, domain.NotFoundError{Resource: "account"}
	}
	return account, nil
}

func (m *mockAccountStore) Put(ctx context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.accounts[account.Address] = account
	return nil
}

func TestResolveExistingSessionIdentity(t *testing.T) {
	accounts := newMockAccountStore()
	uc := NewBootstrapUsecase(accounts, "example.com")

	existing, _ := driftpad.ParseParticipantID("jane@example.com")
	id, err := uc.Resolve(context.Background(), existing, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != existing {
		t.Fatalf("expected identity returned unchanged, got %s", id)
	}
	if accounts.gets != 0 || accounts.puts != 0 {
		t.Fatalf("expected no storage calls on fast path, got %d gets %d puts", accounts.gets, accounts.puts)
	}
}

func TestResolveMissingHeaders(t *testing.T) {
	cases := []struct {
		username string
		userID   string
	}{
		{"", "ext-123"},
		{"   ", "ext-123"},
		{"Jane Doe", ""},
		{"Jane Doe", "  "},
		{"", ""},
	}

	for _, tc := range cases {
		accounts := newMockAccountStore()
		uc := NewBootstrapUsecase(accounts, "example.com")

		_, err := uc.Resolve(context.Background(), driftpad.ParticipantID{}, tc.username, tc.userID)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("headers (%q, %q): expected ErrUnauthorized got %v", tc.username, tc.userID, err)
		}
		if accounts.gets != 0 || accounts.puts != 0 {
			t.Fatalf("headers (%q, %q): expected no storage calls", tc.username, tc.userID)
		}
	}
}

func TestResolveCreatesAccountForNewIdentity(t *testing.T) {
	accounts := newMockAccountStore()
	uc := NewBootstrapUsecase(accounts, "example.com")

	id, err := uc.Resolve(context.Background(), driftpad.ParticipantID{}, "  Jane   Doe ", "ext-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Address() != "Jane_Doe@example.com" {
		t.Fatalf("expected Jane_Doe@example.com got %s", id.Address())
	}

	account, ok := accounts.accounts["Jane_Doe@example.com"]
	if !ok {
		t.Fatalf("expected account to be created")
	}
	if account.Kind != domain.AccountKindHuman {
		t.Fatalf("expected human account got %s", account.Kind)
	}
	if account.PasswordDigest == "" {
		t.Fatalf("expected a generated password digest")
	}
}

func TestResolveInvalidIdentity(t *testing.T) {
	accounts := newMockAccountStore()
	uc := NewBootstrapUsecase(accounts, "example.com")

	_, err := uc.Resolve(context.Background(), driftpad.ParticipantID{}, "J@ne", "ext-123")
	if !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity got %v", err)
	}
	if accounts.puts != 0 {
		t.Fatalf("expected no account writes")
	}
}

func TestResolveIdempotent(t *testing.T) {
	accounts := newMockAccountStore()
	uc := NewBootstrapUsecase(accounts, "example.com")

	for i := 0; i < 3; i++ {
		_, err := uc.Resolve(context.Background(), driftpad.ParticipantID{}, "Jane Doe", "ext-123")
		if err != nil {
			t.Fatalf("unexpected error on round %d: %v", i, err)
		}
	}
	if accounts.puts != 1 {
		t.Fatalf("expected exactly one account creation, got %d", accounts.puts)
	}
}

func TestResolveStorageFailure(t *testing.T) {
	accounts := newMockAccountStore()
	accounts.putErr = errors.New("disk full")
	uc := NewBootstrapUsecase(accounts, "example.com")

	_, err := uc.Resolve(context.Background(), driftpad.ParticipantID{}, "Jane Doe", "ext-123")
	if !errors.Is(err, domain.StorageError{}) {
		t.Fatalf("expected StorageError got %v", err)
	}
	var storageErr domain.StorageError
	if !errors.As(err, &storageErr) || storageErr.Op != "account create" {
		t.Fatalf("expected account create context, got %+v", err)
	}
}
