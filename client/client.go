// Package client implements the HTTP client for the platform's document
// service RPC endpoint. Document mutations accumulate locally on a Document
// and are applied in one batch on Submit, which is also where a brand-new
// document receives its server-assigned id.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second

	// rootCollection is the section of a document that holds the main
	// conversation. The bootstrap path never touches any other section.
	rootCollection = "root"
)

// Credential authorizes RPC calls on behalf of an agent account.
type Credential struct {
	Address string
	Secret  string
}

type Client struct {
	client    *http.Client
	rpcURL    string
	userAgent string
}

func New(rpcURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:    &httpClient,
		rpcURL:    rpcURL,
		userAgent: "driftpad",
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// Operation is a single pending document mutation.
type Operation struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

type submitRequest struct {
	DocumentID string      `json:"documentId,omitempty"`
	Operations []Operation `json:"operations"`
}

type operationResponse struct {
	ID    string         `json:"id"`
	Error string         `json:"error,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

type documentState struct {
	DocumentID   string   `json:"documentId"`
	Collection   string   `json:"collection"`
	Participants []string `json:"participants"`
}

// Document is a handle on a collaborative document with pending local
// changes. It is not safe for concurrent use.
type Document struct {
	client  *Client
	cred    Credential
	id      string
	fresh   bool
	pending []Operation
}

// NewDocument prepares a brand-new document. Nothing is sent until Submit.
func (c *Client) NewDocument(cred Credential, domain string, participants []string) *Document {
	return &Document{
		client: c,
		cred:   cred,
		fresh:  true,
		pending: []Operation{{
			Method: "document.create",
			Params: map[string]any{
				"domain":       domain,
				"collection":   rootCollection,
				"participants": participants,
			},
		}},
	}
}

// FetchDocument loads the root collection of an existing document.
func (c *Client) FetchDocument(ctx context.Context, cred Credential, id string) (*Document, error) {
	url := fmt.Sprintf("%s/documents/%s/%s", c.rpcURL, id, rootCollection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req, cred)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d fetching document %s", resp.StatusCode, id)
	}

	var state documentState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}

	return &Document{
		client: c,
		cred:   cred,
		id:     state.DocumentID,
	}, nil
}

// ID returns the document id. For a new document it is empty until a
// successful Submit.
func (d *Document) ID() string {
	return d.id
}

func (d *Document) AddParticipant(address string) {
	d.pending = append(d.pending, Operation{
		Method: "document.addParticipant",
		Params: map[string]any{"participant": address},
	})
}

func (d *Document) AppendLine(text string) {
	d.pending = append(d.pending, Operation{
		Method: "document.appendLine",
		Params: map[string]any{"text": text},
	})
}

// Submit applies all pending operations in one batch. On success the pending
// list is cleared and, for a fresh document, the assigned id is recorded.
func (d *Document) Submit(ctx context.Context) error {
	body, err := json.Marshal(submitRequest{
		DocumentID: d.id,
		Operations: d.pending,
	})
	if err != nil {
		return err
	}

	url := d.client.rpcURL + "/documents/submit"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	d.client.authorize(req, d.cred)

	resp, err := d.client.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d on submit", resp.StatusCode)
	}

	var results []operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return fmt.Errorf("failed to decode submit response: %w", err)
	}
	for _, result := range results {
		if result.Error != "" {
			return fmt.Errorf("operation %s rejected: %s", result.ID, result.Error)
		}
	}

	if d.fresh {
		if len(results) == 0 {
			return fmt.Errorf("submit response carried no results for new document")
		}
		id, _ := results[0].Data["documentId"].(string)
		if id == "" {
			return fmt.Errorf("submit response carried no document id")
		}
		d.id = id
		d.fresh = false
	}

	d.pending = nil
	return nil
}

func (c *Client) authorize(req *http.Request, cred Credential) {
	req.Header.Set("Authorization", "Bearer "+cred.Secret)
	req.Header.Set("X-Agent-Address", cred.Address)
}
