package usecase

import (
	"context"

	"github.com/driftpad/driftpad/internal/domain"
)

// AccountStore defines persistence/lookup for accounts.
type AccountStore interface {
	Get(ctx context.Context, address string) (domain.Account, error)
	Put(ctx context.Context, account domain.Account) error
}

// PointerStore holds the single welcome-document pointer. Read returns
// domain.ErrNotFound while the pointer is absent. Initialize persists id and
// returns the value the pointer holds afterwards; a conditional-write backend
// returns the winner of a concurrent initialization, the legacy file backend
// always returns id (last-writer-wins).
type PointerStore interface {
	Read(ctx context.Context) (string, error)
	Initialize(ctx context.Context, id string) (string, error)
}

// DocumentHandle is a collaborative document with pending local changes.
// Mutations accumulate on the handle and take effect on Submit. After a
// successful Submit of a new document, ID returns the server-assigned id.
type DocumentHandle interface {
	ID() string
	AddParticipant(address string)
	AppendLine(text string)
	Submit(ctx context.Context) error
}

// DocumentSession performs document-service calls under one credential.
type DocumentSession interface {
	CreateDocument(ctx context.Context, domain string, participants []string) (DocumentHandle, error)
	FetchDocument(ctx context.Context, id string) (DocumentHandle, error)
}

// DocumentDialer binds an agent credential to a DocumentSession.
type DocumentDialer interface {
	Dial(agentAddress, sharedSecret string) DocumentSession
}
