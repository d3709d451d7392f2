package document

import "context"

// Repository is a document store keyed by record id within named collections.
type Repository interface {
	// Get returns the document stored under id, with exists=false when absent.
	Get(ctx context.Context, collection, id string) (Document, bool, error)
	// ListAll returns every document in the collection.
	ListAll(ctx context.Context, collection string) ([]Document, error)
	// BatchUpsert writes docs keyed by each record's idKey value in batches
	// of at most BatchLimit. Records missing the id key are skipped.
	BatchUpsert(ctx context.Context, collection string, docs []Document, idKey string) error
	// DeleteAll removes every document in the collection, at most BatchLimit
	// deletions per batch.
	DeleteAll(ctx context.Context, collection string) error
}
