package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/driftpad/driftpad"
)

var tracer = otel.Tracer("session")

// SessionStore maps opaque session tokens to participant addresses.
type SessionStore interface {
	Put(ctx context.Context, token string, address string) error
	Get(ctx context.Context, token string) (string, error)
}

// SessionService issues and resolves browser sessions. Sessions are held
// server-side; the browser only ever sees the opaque token.
type SessionService struct {
	store SessionStore
}

func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{store: store}
}

// Issue binds a fresh token to the identity and returns the token.
func (s *SessionService) Issue(ctx context.Context, id driftpad.ParticipantID) (string, error) {
	ctx, span := tracer.Start(ctx, "Session.Service.Issue")
	defer span.End()

	token := uuid.NewString()
	if err := s.store.Put(ctx, token, id.Address()); err != nil {
		span.RecordError(err)
		return "", err
	}
	return token, nil
}

// Resolve returns the identity bound to a token, if any.
func (s *SessionService) Resolve(ctx context.Context, token string) (driftpad.ParticipantID, error) {
	ctx, span := tracer.Start(ctx, "Session.Service.Resolve")
	defer span.End()

	address, err := s.store.Get(ctx, token)
	if err != nil {
		span.RecordError(err)
		return driftpad.ParticipantID{}, err
	}
	return driftpad.ParseParticipantID(address)
}
