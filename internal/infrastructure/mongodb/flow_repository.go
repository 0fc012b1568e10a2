package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expoflow-platform/logistics-service/internal/domain"
)

type FlowRepository struct {
	collection *mongo.Collection
}

func NewFlowRepository(db *mongo.Database) *FlowRepository {
	repo := &FlowRepository{collection: db.Collection("flows")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *FlowRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "flowId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "projectId", Value: 1}}},
		{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "originCity", Value: 1}, {Key: "destCity", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *FlowRepository) Save(ctx context.Context, flow *domain.LogisticsFlow) error {
	flow.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"flowId": flow.FlowID}
	update := bson.M{"$set": flow}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *FlowRepository) SaveAll(ctx context.Context, flows []*domain.LogisticsFlow) error {
	if len(flows) == 0 {
		return nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(flows))
	for _, f := range flows {
		f.UpdatedAt = now
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"flowId": f.FlowID}).
			SetUpdate(bson.M{"$set": f}).
			SetUpsert(true))
	}

	_, err := r.collection.BulkWrite(ctx, models)
	return err
}

func (r *FlowRepository) FindByID(ctx context.Context, flowID string) (*domain.LogisticsFlow, error) {
	var flow domain.LogisticsFlow
	err := r.collection.FindOne(ctx, bson.M{"flowId": flowID}).Decode(&flow)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &flow, err
}

func (r *FlowRepository) FindByProjectID(ctx context.Context, projectID string) ([]*domain.LogisticsFlow, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var flows []*domain.LogisticsFlow
	err = cursor.All(ctx, &flows)
	return flows, err
}

func (r *FlowRepository) DeleteByProjectID(ctx context.Context, projectID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	return err
}
