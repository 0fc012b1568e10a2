package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expoflow-platform/logistics-service/internal/domain"
)

type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	repo := &ProjectRepository{collection: db.Collection("projects")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ProjectRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "projectId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *ProjectRepository) Save(ctx context.Context, project *domain.Project) error {
	project.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"projectId": project.ProjectID}
	update := bson.M{"$set": project}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *ProjectRepository) FindByID(ctx context.Context, projectID string) (*domain.Project, error) {
	var project domain.Project
	err := r.collection.FindOne(ctx, bson.M{"projectId": projectID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &project, err
}

func (r *ProjectRepository) FindAll(ctx context.Context, limit int) ([]*domain.Project, error) {
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var projects []*domain.Project
	err = cursor.All(ctx, &projects)
	return projects, err
}

func (r *ProjectRepository) Delete(ctx context.Context, projectID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"projectId": projectID})
	return err
}
