package memory

import (
	"strconv"
	"testing"

	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
)

func TestDocumentRepositoryUpsertAndGet(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := t.Context()

	docs := []document.Document{
		{"id": float64(1), "web_name": "Salah"},
		{"id": float64(2), "web_name": "Haaland"},
		{"web_name": "missing id, skipped"},
	}
	if err := repo.BatchUpsert(ctx, document.CollectionPlayers, docs, "id"); err != nil {
		t.Fatalf("BatchUpsert: %v", err)
	}

	got, exists, err := repo.Get(ctx, document.CollectionPlayers, "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !exists {
		t.Fatal("expected document 1 to exist")
	}
	if name, _ := got.String("web_name"); name != "Salah" {
		t.Fatalf("web_name = %q, want Salah", name)
	}

	all, err := repo.ListAll(ctx, document.CollectionPlayers)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListAll returned %d docs, want 2", len(all))
	}
}

func TestDocumentRepositoryUpsertReplacesExisting(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := t.Context()

	first := []document.Document{{"id": float64(7), "total_points": float64(10)}}
	second := []document.Document{{"id": float64(7), "total_points": float64(25)}}
	if err := repo.BatchUpsert(ctx, document.CollectionPlayers, first, "id"); err != nil {
		t.Fatalf("BatchUpsert: %v", err)
	}
	if err := repo.BatchUpsert(ctx, document.CollectionPlayers, second, "id"); err != nil {
		t.Fatalf("BatchUpsert: %v", err)
	}

	got, _, err := repo.Get(ctx, document.CollectionPlayers, "7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if points, _ := got.Int("total_points"); points != 25 {
		t.Fatalf("total_points = %d, want 25", points)
	}
}

func TestDocumentRepositoryDeleteAllBeyondBatchLimit(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := t.Context()

	docs := make([]document.Document, 0, document.BatchLimit+50)
	for i := 0; i < document.BatchLimit+50; i++ {
		docs = append(docs, document.Document{"id": strconv.Itoa(i)})
	}
	if err := repo.BatchUpsert(ctx, document.CollectionFixtures, docs, "id"); err != nil {
		t.Fatalf("BatchUpsert: %v", err)
	}

	if err := repo.DeleteAll(ctx, document.CollectionFixtures); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	all, err := repo.ListAll(ctx, document.CollectionFixtures)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty collection, got %d docs", len(all))
	}
}

func TestDocumentRepositoryGetMissing(t *testing.T) {
	repo := NewDocumentRepository()

	_, exists, err := repo.Get(t.Context(), document.CollectionTeams, "999")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if exists {
		t.Fatal("expected document to be absent")
	}
}

func TestDocumentRepositoryCloneIsolation(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := t.Context()

	if err := repo.BatchUpsert(ctx, document.CollectionTeams, []document.Document{{"id": float64(1), "name": "Arsenal"}}, "id"); err != nil {
		t.Fatalf("BatchUpsert: %v", err)
	}

	got, _, err := repo.Get(ctx, document.CollectionTeams, "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got["name"] = "mutated"

	again, _, err := repo.Get(ctx, document.CollectionTeams, "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if name, _ := again.String("name"); name != "Arsenal" {
		t.Fatalf("stored document mutated through returned copy: %q", name)
	}
}
