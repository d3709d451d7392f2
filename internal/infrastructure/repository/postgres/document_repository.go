package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
	qb "github.com/riskibarqy/fpl-data-service/internal/platform/querybuilder"
)

const documentsTable = "documents"

const upsertSuffix = "ON CONFLICT (collection, doc_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()"

// DocumentRepository stores documents as JSONB rows in a single table.
type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Get(ctx context.Context, collection, id string) (document.Document, bool, error) {
	query, args, err := qb.Select("payload").
		From(documentsTable).
		Where(qb.Eq("collection", collection), qb.Eq("doc_id", id)).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build get query: %w", err)
	}

	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}

	var doc document.Document
	if err := sonic.Unmarshal(payload, &doc); err != nil {
		return nil, false, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}

	return doc, true, nil
}

func (r *DocumentRepository) ListAll(ctx context.Context, collection string) ([]document.Document, error) {
	query, args, err := qb.Select("payload").
		From(documentsTable).
		Where(qb.Eq("collection", collection)).
		OrderBy("doc_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var payloads [][]byte
	if err := r.db.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, fmt.Errorf("list collection %s: %w", collection, err)
	}

	out := make([]document.Document, 0, len(payloads))
	for _, payload := range payloads {
		var doc document.Document
		if err := sonic.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("decode document in %s: %w", collection, err)
		}
		out = append(out, doc)
	}

	return out, nil
}

func (r *DocumentRepository) BatchUpsert(ctx context.Context, collection string, docs []document.Document, idKey string) error {
	for start := 0; start < len(docs); start += document.BatchLimit {
		end := start + document.BatchLimit
		if end > len(docs) {
			end = len(docs)
		}
		if err := r.upsertBatch(ctx, collection, docs[start:end], idKey); err != nil {
			return err
		}
	}

	return nil
}

func (r *DocumentRepository) upsertBatch(ctx context.Context, collection string, docs []document.Document, idKey string) error {
	builder := qb.InsertInto(documentsTable).Columns("collection", "doc_id", "payload")
	rows := 0
	for _, doc := range docs {
		id, ok := doc.Key(idKey)
		if !ok {
			continue
		}
		payload, err := sonic.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
		}
		builder.Values(collection, id, payload)
		rows++
	}
	if rows == 0 {
		return nil
	}

	query, args, err := builder.Suffix(upsertSuffix).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert batch into %s: %w", collection, err)
	}

	return nil
}

func (r *DocumentRepository) DeleteAll(ctx context.Context, collection string) error {
	// ctid subselect keeps each round trip inside the per-batch ceiling.
	query, args, err := qb.DeleteFrom(documentsTable).
		Where(qb.Expr(
			fmt.Sprintf("ctid IN (SELECT ctid FROM %s WHERE collection = ? LIMIT %d)", documentsTable, document.BatchLimit),
			collection,
		)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	for {
		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete batch from %s: %w", collection, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("read delete batch result for %s: %w", collection, err)
		}
		if affected == 0 {
			return nil
		}
	}
}
