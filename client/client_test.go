package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmitNewDocument(t *testing.T) {
	var captured submitRequest
	var authorization, agent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/submit" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		authorization = r.Header.Get("Authorization")
		agent = r.Header.Get("X-Agent-Address")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode([]operationResponse{
			{ID: "op0", Data: map[string]any{"documentId": "doc-abc"}},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	cred := Credential{Address: "welcome-agent@example.com", Secret: "agent-secret"}

	doc := c.NewDocument(cred, "example.com", []string{"Jane_Doe@example.com"})
	doc.AppendLine("Welcome to example.com!")

	if err := doc.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-abc" {
		t.Fatalf("expected assigned id doc-abc got %q", doc.ID())
	}

	if authorization != "Bearer agent-secret" {
		t.Fatalf("expected bearer credential, got %q", authorization)
	}
	if agent != "welcome-agent@example.com" {
		t.Fatalf("expected agent address header, got %q", agent)
	}

	if captured.DocumentID != "" {
		t.Fatalf("a new document must not carry an id on submit")
	}
	if len(captured.Operations) != 2 {
		t.Fatalf("expected 2 operations got %d", len(captured.Operations))
	}
	if captured.Operations[0].Method != "document.create" {
		t.Fatalf("expected document.create first, got %s", captured.Operations[0].Method)
	}
	if captured.Operations[1].Method != "document.appendLine" {
		t.Fatalf("expected document.appendLine second, got %s", captured.Operations[1].Method)
	}
}

func TestFetchAndJoinDocument(t *testing.T) {
	var captured submitRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/documents/doc-42/root":
			json.NewEncoder(w).Encode(documentState{
				DocumentID:   "doc-42",
				Collection:   "root",
				Participants: []string{"welcome-agent@example.com"},
			})
		case "/documents/submit":
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			json.NewEncoder(w).Encode([]operationResponse{{ID: "op0"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	cred := Credential{Address: "welcome-agent@example.com", Secret: "agent-secret"}

	doc, err := c.FetchDocument(context.Background(), cred, "doc-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-42" {
		t.Fatalf("expected doc-42 got %q", doc.ID())
	}

	doc.AddParticipant("Jane_Doe@example.com")
	if err := doc.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.DocumentID != "doc-42" {
		t.Fatalf("expected submit against doc-42, got %q", captured.DocumentID)
	}
	if len(captured.Operations) != 1 || captured.Operations[0].Method != "document.addParticipant" {
		t.Fatalf("unexpected operations %v", captured.Operations)
	}
}

func TestSubmitRejectedOperation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]operationResponse{
			{ID: "op0", Error: "not a participant"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	doc := c.NewDocument(Credential{}, "example.com", nil)

	if err := doc.Submit(context.Background()); err == nil {
		t.Fatalf("expected an error for a rejected operation")
	}
}

func TestFetchDocumentServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	if _, err := c.FetchDocument(context.Background(), Credential{}, "doc-42"); err == nil {
		t.Fatalf("expected an error on server failure")
	}
}
