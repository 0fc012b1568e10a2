package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expoflow-platform/logistics-service/internal/domain"
)

type QuoteLineRepository struct {
	collection *mongo.Collection
}

func NewQuoteLineRepository(db *mongo.Database) *QuoteLineRepository {
	repo := &QuoteLineRepository{collection: db.Collection("quote_lines")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *QuoteLineRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "lineId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "projectId", Value: 1}}},
		{Keys: bson.D{{Key: "flowId", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *QuoteLineRepository) Save(ctx context.Context, line *domain.QuoteLine) error {
	line.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"lineId": line.LineID}
	update := bson.M{"$set": line}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *QuoteLineRepository) SaveAll(ctx context.Context, lines []*domain.QuoteLine) error {
	if len(lines) == 0 {
		return nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(lines))
	for _, l := range lines {
		l.UpdatedAt = now
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"lineId": l.LineID}).
			SetUpdate(bson.M{"$set": l}).
			SetUpsert(true))
	}

	_, err := r.collection.BulkWrite(ctx, models)
	return err
}

func (r *QuoteLineRepository) FindByID(ctx context.Context, lineID string) (*domain.QuoteLine, error) {
	var line domain.QuoteLine
	err := r.collection.FindOne(ctx, bson.M{"lineId": lineID}).Decode(&line)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &line, err
}

func (r *QuoteLineRepository) FindByProjectID(ctx context.Context, projectID string) ([]*domain.QuoteLine, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var lines []*domain.QuoteLine
	err = cursor.All(ctx, &lines)
	return lines, err
}

func (r *QuoteLineRepository) FindByFlowID(ctx context.Context, flowID string) ([]*domain.QuoteLine, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"flowId": flowID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var lines []*domain.QuoteLine
	err = cursor.All(ctx, &lines)
	return lines, err
}

func (r *QuoteLineRepository) DeleteByProjectID(ctx context.Context, projectID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	return err
}
