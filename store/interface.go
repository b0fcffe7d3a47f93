package store

import (
	"context"
	"encoding/json"
	"time"
)

// Document is the unit of persistence. The store does not interpret Body;
// the board serializes tasks into it and owns the schema.
type Document struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Body      json.RawMessage `json:"body"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// DocumentStore defines the asynchronous persistence boundary the board
// writes through. Implementations treat documents as opaque: they never
// inspect Body beyond storing and returning it.
//
// All failures are opaque to callers; the board wraps them as
// persistence errors and does not inspect backend detail.
type DocumentStore interface {
	// Create adds a new document. It fails if a document with the same ID
	// already exists.
	Create(ctx context.Context, doc Document) error

	// Update replaces the document with the given ID.
	// It fails if the document does not exist.
	Update(ctx context.Context, id string, doc Document) error

	// Delete removes the document with the given ID. Deleting a missing
	// document is not an error: the board's local state is authoritative
	// and a repeated delete must stay idempotent.
	Delete(ctx context.Context, id string) error

	// QueryByOwner returns every document belonging to ownerID.
	QueryByOwner(ctx context.Context, ownerID string) ([]Document, error)

	// ReplaceByOwner atomically swaps ownerID's documents for docs.
	// Used by import, which replaces the collection wholesale.
	ReplaceByOwner(ctx context.Context, ownerID string, docs []Document) error

	// Close releases any resources held by the store, such as file locks
	// or database connections.
	Close() error
}
