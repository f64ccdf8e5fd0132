package gateway

import (
	"context"

	"github.com/pkg/errors"

	"github.com/driftpad/driftpad/client"
	"github.com/driftpad/driftpad/internal/usecase"
)

// DocumentGateway adapts the document-service HTTP client to the usecase
// ports.
type DocumentGateway struct {
	client *client.Client
}

func NewDocumentGateway(cl *client.Client) *DocumentGateway {
	return &DocumentGateway{client: cl}
}

func (g *DocumentGateway) Dial(agentAddress, sharedSecret string) usecase.DocumentSession {
	return &documentSession{
		client: g.client,
		cred: client.Credential{
			Address: agentAddress,
			Secret:  sharedSecret,
		},
	}
}

type documentSession struct {
	client *client.Client
	cred   client.Credential
}

func (s *documentSession) CreateDocument(ctx context.Context, domain string, participants []string) (usecase.DocumentHandle, error) {
	return s.client.NewDocument(s.cred, domain, participants), nil
}

func (s *documentSession) FetchDocument(ctx context.Context, id string) (usecase.DocumentHandle, error) {
	doc, err := s.client.FetchDocument(ctx, s.cred, id)
	if err != nil {
		return nil, errors.Wrap(err, "DocumentGateway.FetchDocument")
	}
	return doc, nil
}
