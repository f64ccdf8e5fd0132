package usecase

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/driftpad/driftpad"
	"github.com/driftpad/driftpad/internal/domain"
)

// WelcomeUsecase provides-or-creates the server-wide welcome document and
// attaches newly bootstrapped identities to it.
//
// At-most-one-creation is backed only by the pointer store. With the
// conditional-write backend two concurrent first requests still race on
// document creation but agree on the pointer; with the legacy file backend
// the pointer itself is last-writer-wins and the losing document is orphaned
// with its single participant. Both outcomes are accepted: the deployment
// this was written for has a single writer.
type WelcomeUsecase struct {
	accounts  AccountStore
	pointer   PointerStore
	dialer    DocumentDialer
	fqdn      string
	agentName string
}

func NewWelcomeUsecase(accounts AccountStore, pointer PointerStore, dialer DocumentDialer, fqdn string, agentName string) *WelcomeUsecase {
	return &WelcomeUsecase{
		accounts:  accounts,
		pointer:   pointer,
		dialer:    dialer,
		fqdn:      fqdn,
		agentName: agentName,
	}
}

// AgentAddress returns the well-known address of the welcome agent.
func (uc *WelcomeUsecase) AgentAddress() string {
	return uc.agentName + "@" + uc.fqdn
}

// Attach adds id to the welcome document, creating the document first if no
// pointer exists yet, and returns the document id to redirect to. Failures
// abort the request; partially applied document mutations are not rolled
// back.
func (uc *WelcomeUsecase) Attach(ctx context.Context, id driftpad.ParticipantID) (string, error) {
	ctx, span := tracer.Start(ctx, "Welcome.Attach")
	defer span.End()

	agent, err := uc.accounts.Get(ctx, uc.AgentAddress())
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrAgentAccountMissing
		}
		return "", domain.StorageError{Op: "agent lookup", Err: err}
	}
	if !agent.IsAgent() {
		span.RecordError(domain.ErrAgentAccountMissing)
		return "", domain.ErrAgentAccountMissing
	}

	session := uc.dialer.Dial(agent.Address, agent.SharedSecret)

	docID, err := uc.pointer.Read(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return "", domain.StorageError{Op: "pointer read", Err: err}
	}

	if err == nil {
		span.SetAttributes(attribute.String("documentId", docID))

		doc, err := session.FetchDocument(ctx, docID)
		if err != nil {
			span.RecordError(err)
			return "", domain.RPCError{Call: "fetch", Err: err}
		}
		doc.AddParticipant(id.Address())
		if err := doc.Submit(ctx); err != nil {
			span.RecordError(err)
			return "", domain.RPCError{Call: "submit", Err: err}
		}
		return docID, nil
	}

	doc, err := session.CreateDocument(ctx, uc.fqdn, []string{id.Address()})
	if err != nil {
		span.RecordError(err)
		return "", domain.RPCError{Call: "create", Err: err}
	}
	doc.AppendLine("Welcome to " + uc.fqdn + "!")
	if err := doc.Submit(ctx); err != nil {
		span.RecordError(err)
		return "", domain.RPCError{Call: "submit", Err: err}
	}

	newID := doc.ID()
	if newID == "" {
		err := errors.New("no document id assigned on submit")
		span.RecordError(err)
		return "", domain.RPCError{Call: "submit", Err: err}
	}

	winner, err := uc.pointer.Initialize(ctx, newID)
	if err != nil {
		span.RecordError(err)
		return "", domain.StorageError{Op: "pointer write", Err: err}
	}
	if winner != newID {
		// Lost a concurrent first bootstrap. The requester stays on the
		// document that was just created for them; the pointer holds the
		// winner for everyone after.
		slog.Warn("lost welcome pointer initialization race",
			slog.String("created", newID),
			slog.String("winner", winner),
		)
	}

	span.SetAttributes(attribute.String("documentId", newID))
	return newID, nil
}
