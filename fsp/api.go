package fsp

import (
	"context"
)

// API defines the record catalog operations
type API interface {
	// Find returns the first record stored for an entity, or nil
	Find(ctx context.Context, req FindRequest) (*EnrichedRecord, error)

	// FindByID returns a record by its numeric id, or nil
	FindByID(ctx context.Context, req FindByIDRequest) (*EnrichedRecord, error)

	// FindAll returns a single page of records
	FindAll(ctx context.Context, req FindAllRequest) (*Page, error)

	// Create stores a new record
	Create(ctx context.Context, req CreateRequest) (*EnrichedRecord, error)

	// Edit updates the description of an existing record
	Edit(ctx context.Context, req EditRequest) (*EnrichedRecord, error)
}

var _ API = (*Client)(nil)
