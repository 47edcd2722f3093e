package indexer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Index interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Delete(ctx context.Context, index, id string) error
}

// Listener keeps the product search index in step with catalog events.
type Listener struct {
	consumer MessageReader
	repo     Repository
	search   Index
	index    string
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewListener(consumer MessageReader, repo Repository, search Index, index string, log logger.ZapLogger) *Listener {
	return &Listener{
		consumer: consumer,
		repo:     repo,
		search:   search,
		index:    index,
		logger:   log,
		backoff:  time.Second,
	}
}

func (l *Listener) EnsureIndex(ctx context.Context) error {
	return l.search.CreateIndex(ctx, l.index, Mapping)
}

func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("starting catalog indexer", zap.String("index", l.index))
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping catalog indexer")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *Listener) processMessage(ctx context.Context, value []byte) {
	var event model.CatalogEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal catalog event", zap.Error(err))
		return
	}

	var err error
	switch event.Type {
	case model.EventProductUpserted:
		err = l.upsert(ctx, event)
	case model.EventProductDeleted:
		err = l.search.Delete(ctx, l.index, event.ProductID)
	default:
		return
	}
	if err != nil {
		l.logger.Error("failed to apply catalog event",
			zap.String("type", event.Type),
			zap.String("product_id", event.ProductID),
			zap.Error(err),
		)
	}
}

func (l *Listener) upsert(ctx context.Context, event model.CatalogEvent) error {
	doc, err := l.repo.LoadDocument(ctx, event.TenantID, event.ProductID)
	if err != nil {
		return err
	}
	// Deleted after the event was published.
	if doc == nil {
		return l.search.Delete(ctx, l.index, event.ProductID)
	}
	return l.search.Index(ctx, l.index, doc.ID, doc)
}
