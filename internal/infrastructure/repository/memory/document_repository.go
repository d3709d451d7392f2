package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
)

// DocumentRepository keeps collections of documents in process memory. It is
// the default store and the test double for the postgres implementation.
type DocumentRepository struct {
	mu          sync.RWMutex
	collections map[string]map[string]document.Document
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		collections: make(map[string]map[string]document.Document),
	}
}

func (r *DocumentRepository) Get(_ context.Context, collection, id string) (document.Document, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs, ok := r.collections[collection]
	if !ok {
		return nil, false, nil
	}
	doc, ok := docs[id]
	if !ok {
		return nil, false, nil
	}

	return document.Clone(doc), true, nil
}

func (r *DocumentRepository) ListAll(_ context.Context, collection string) ([]document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.collections[collection]
	out := make([]document.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, document.Clone(doc))
	}

	return out, nil
}

func (r *DocumentRepository) BatchUpsert(_ context.Context, collection string, docs []document.Document, idKey string) error {
	for start := 0; start < len(docs); start += document.BatchLimit {
		end := start + document.BatchLimit
		if end > len(docs) {
			end = len(docs)
		}

		r.mu.Lock()
		target, ok := r.collections[collection]
		if !ok {
			target = make(map[string]document.Document, end-start)
			r.collections[collection] = target
		}
		for _, doc := range docs[start:end] {
			id, ok := doc.Key(idKey)
			if !ok {
				continue
			}
			target[id] = document.Clone(doc)
		}
		r.mu.Unlock()
	}

	return nil
}

func (r *DocumentRepository) DeleteAll(_ context.Context, collection string) error {
	for {
		r.mu.Lock()
		docs := r.collections[collection]
		if len(docs) == 0 {
			delete(r.collections, collection)
			r.mu.Unlock()
			return nil
		}

		deleted := 0
		for id := range docs {
			delete(docs, id)
			deleted++
			if deleted >= document.BatchLimit {
				break
			}
		}
		r.mu.Unlock()
	}
}
