package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LoadDocument(ctx context.Context, tenantID, productID string) (*Document, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

type MockIndex struct {
	mock.Mock
}

func (m *MockIndex) CreateIndex(ctx context.Context, index, mapping string) error {
	return m.Called(ctx, index, mapping).Error(0)
}

func (m *MockIndex) Index(ctx context.Context, index, id string, doc interface{}) error {
	return m.Called(ctx, index, id, doc).Error(0)
}

func (m *MockIndex) Delete(ctx context.Context, index, id string) error {
	return m.Called(ctx, index, id).Error(0)
}

// queueReader hands out queued messages, then blocks until ctx is done.
type queueReader struct {
	msgs   []kafka.Message
	cancel context.CancelFunc
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.msgs) == 0 {
		q.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := q.msgs[0]
	q.msgs = q.msgs[1:]
	return msg, nil
}

func event(t *testing.T, typ, productID string) kafka.Message {
	data, err := json.Marshal(model.CatalogEvent{Type: typ, TenantID: "t1", ProductID: productID, OccurredAt: time.Now()})
	require.NoError(t, err)
	return kafka.Message{Key: []byte(productID), Value: data}
}

func TestListener_AppliesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doc := &Document{ID: "p1", TenantID: "t1", Name: "Tee", SKUCodes: []string{"TEE-R"}}
	repo := new(MockRepository)
	repo.On("LoadDocument", mock.Anything, "t1", "p1").Return(doc, nil)
	repo.On("LoadDocument", mock.Anything, "t1", "p2").Return(nil, nil)

	idx := new(MockIndex)
	idx.On("Index", mock.Anything, "catalog_products", "p1", doc).Return(nil)
	idx.On("Delete", mock.Anything, "catalog_products", "p2").Return(nil)
	idx.On("Delete", mock.Anything, "catalog_products", "p3").Return(nil)

	reader := &queueReader{cancel: cancel, msgs: []kafka.Message{
		event(t, model.EventProductUpserted, "p1"),
		event(t, model.EventProductUpserted, "p2"),
		event(t, model.EventProductDeleted, "p3"),
		event(t, "order.created", "p4"),
		{Value: []byte("not json")},
	}}

	NewListener(reader, repo, idx, "catalog_products", logger.NewNop()).Start(ctx)

	repo.AssertExpectations(t)
	idx.AssertExpectations(t)
	assert.Empty(t, reader.msgs)
}

func TestListener_KeepsGoingAfterIndexFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := new(MockRepository)
	repo.On("LoadDocument", mock.Anything, "t1", "p1").Return(nil, errors.New("db down"))

	idx := new(MockIndex)
	idx.On("Delete", mock.Anything, "catalog_products", "p2").Return(nil)

	reader := &queueReader{cancel: cancel, msgs: []kafka.Message{
		event(t, model.EventProductUpserted, "p1"),
		event(t, model.EventProductDeleted, "p2"),
	}}
	NewListener(reader, repo, idx, "catalog_products", logger.NewNop()).Start(ctx)

	idx.AssertExpectations(t)
	idx.AssertNotCalled(t, "Index", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureIndex(t *testing.T) {
	idx := new(MockIndex)
	idx.On("CreateIndex", mock.Anything, "catalog_products", Mapping).Return(nil)

	l := NewListener(nil, nil, idx, "catalog_products", logger.NewNop())
	require.NoError(t, l.EnsureIndex(context.Background()))
	idx.AssertExpectations(t)
}
