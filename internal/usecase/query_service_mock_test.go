package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
	"github.com/stretchr/testify/mock"
)

type mockDocumentStore struct {
	mock.Mock
}

func (m *mockDocumentStore) Get(ctx context.Context, collection, id string) (document.Document, bool, error) {
	args := m.Called(ctx, collection, id)
	doc, _ := args.Get(0).(document.Document)
	return doc, args.Bool(1), args.Error(2)
}

func (m *mockDocumentStore) ListAll(ctx context.Context, collection string) ([]document.Document, error) {
	args := m.Called(ctx, collection)
	docs, _ := args.Get(0).([]document.Document)
	return docs, args.Error(1)
}

func (m *mockDocumentStore) BatchUpsert(ctx context.Context, collection string, docs []document.Document, idKey string) error {
	return m.Called(ctx, collection, docs, idKey).Error(0)
}

func (m *mockDocumentStore) DeleteAll(ctx context.Context, collection string) error {
	return m.Called(ctx, collection).Error(0)
}

func TestQueryService_GetPlayer_SuccessUsingMock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &mockDocumentStore{}
	store.
		On("Get", mock.Anything, document.CollectionPlayers, "7").
		Return(document.Document{"id": float64(7), "web_name": "Salah", "now_cost": float64(130)}, true, nil).
		Once()

	service := NewQueryService(store, nil, nil)

	got, err := service.GetPlayer(ctx, 7)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected player id: got=%d want=7", got.ID)
	}
	if got.WebName != "Salah" {
		t.Fatalf("unexpected web name: got=%q want=%q", got.WebName, "Salah")
	}
	store.AssertExpectations(t)
}

func TestQueryService_GetPlayer_StoreErrorUsingMock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storeErr := errors.New("connection reset")
	store := &mockDocumentStore{}
	store.
		On("Get", mock.Anything, document.CollectionPlayers, "7").
		Return(document.Document(nil), false, storeErr).
		Once()

	service := NewQueryService(store, nil, nil)

	_, err := service.GetPlayer(ctx, 7)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	store.AssertExpectations(t)
}
