package mongo

import (
	"context"
	"time"

	"github.com/lexassist/lexassist/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exchangeTTL = 7 * 24 * time.Hour

type ExchangeRepository interface {
	Record(ctx context.Context, e *models.AnalyzerExchange) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]models.AnalyzerExchange, error)
}

type exchangeRepo struct {
	col *mongo.Collection
}

func NewExchangeRepo(db *mongo.Database) ExchangeRepository {
	return &exchangeRepo{col: db.Collection("analyzer_exchanges")}
}

func (r *exchangeRepo) Record(ctx context.Context, e *models.AnalyzerExchange) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.ExpiresAt.IsZero() {
		e.ExpiresAt = e.Timestamp.Add(exchangeTTL)
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *exchangeRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]models.AnalyzerExchange, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.AnalyzerExchange
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
