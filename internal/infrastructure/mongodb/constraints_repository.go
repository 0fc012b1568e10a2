package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expoflow-platform/logistics-service/internal/domain"
)

type ConstraintsRepository struct {
	collection *mongo.Collection
}

func NewConstraintsRepository(db *mongo.Database) *ConstraintsRepository {
	repo := &ConstraintsRepository{collection: db.Collection("constraints")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ConstraintsRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "projectId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *ConstraintsRepository) Save(ctx context.Context, matrix *domain.ConstraintsMatrix) error {
	matrix.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"projectId": matrix.ProjectID}
	update := bson.M{"$set": matrix}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *ConstraintsRepository) FindByProjectID(ctx context.Context, projectID string) (*domain.ConstraintsMatrix, error) {
	var matrix domain.ConstraintsMatrix
	err := r.collection.FindOne(ctx, bson.M{"projectId": projectID}).Decode(&matrix)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &matrix, err
}
