package usecase

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"github.com/driftpad/driftpad"
	"github.com/driftpad/driftpad/internal/domain"
)

var tracer = otel.Tracer("usecase")

// BootstrapUsecase derives a participant identity from the trusted proxy
// headers and ensures a local account exists for it.
//
// The header values are trusted verbatim. This component performs no
// verification of its own: the security boundary is the upstream proxy, which
// is the only party able to reach this process.
type BootstrapUsecase struct {
	accounts AccountStore
	fqdn     string
}

func NewBootstrapUsecase(accounts AccountStore, fqdn string) *BootstrapUsecase {
	return &BootstrapUsecase{
		accounts: accounts,
		fqdn:     fqdn,
	}
}

// Resolve returns the identity for the current request. An identity already
// bound to the session is returned unchanged with no storage calls. Otherwise
// the trusted header values are normalized into a new identity and an account
// is provisioned on first sight.
func (uc *BootstrapUsecase) Resolve(ctx context.Context, existing driftpad.ParticipantID, username, userID string) (driftpad.ParticipantID, error) {
	if !existing.IsZero() {
		return existing, nil
	}

	ctx, span := tracer.Start(ctx, "Bootstrap.Resolve")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(userID) == "" {
		span.RecordError(domain.ErrUnauthorized)
		return driftpad.ParticipantID{}, domain.ErrUnauthorized
	}
	username = strings.Join(strings.Fields(username), "_")

	id, err := driftpad.NewParticipantID(username, uc.fqdn)
	if err != nil {
		span.RecordError(err)
		return driftpad.ParticipantID{}, domain.ErrInvalidIdentity
	}
	span.SetAttributes(attribute.String("participant", id.Address()))

	_, err = uc.accounts.Get(ctx, id.Address())
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return driftpad.ParticipantID{}, domain.StorageError{Op: "account lookup", Err: err}
	}

	// The record requires credential material even though the user never
	// authenticates with it here: logins always arrive via the proxy headers.
	digest, err := bcrypt.GenerateFromPassword([]byte(driftpad.RandomBase64(64)), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return driftpad.ParticipantID{}, domain.StorageError{Op: "account create", Err: err}
	}

	account := domain.Account{
		Address:        id.Address(),
		Kind:           domain.AccountKindHuman,
		PasswordDigest: string(digest),
	}
	if err := uc.accounts.Put(ctx, account); err != nil {
		span.RecordError(err)
		return driftpad.ParticipantID{}, domain.StorageError{Op: "account create", Err: err}
	}

	return id, nil
}

// Lookup fetches the account bound to an address.
func (uc *BootstrapUsecase) Lookup(ctx context.Context, address string) (domain.Account, error) {
	return uc.accounts.Get(ctx, address)
}
