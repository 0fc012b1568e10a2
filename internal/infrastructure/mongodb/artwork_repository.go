package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expoflow-platform/logistics-service/internal/domain"
)

type ArtworkRepository struct {
	collection *mongo.Collection
}

func NewArtworkRepository(db *mongo.Database) *ArtworkRepository {
	repo := &ArtworkRepository{collection: db.Collection("artworks")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ArtworkRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "artworkId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "projectId", Value: 1}}},
		{Keys: bson.D{{Key: "flowId", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *ArtworkRepository) Save(ctx context.Context, artwork *domain.Artwork) error {
	artwork.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"artworkId": artwork.ArtworkID}
	update := bson.M{"$set": artwork}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *ArtworkRepository) SaveAll(ctx context.Context, artworks []*domain.Artwork) error {
	if len(artworks) == 0 {
		return nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(artworks))
	for _, a := range artworks {
		a.UpdatedAt = now
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"artworkId": a.ArtworkID}).
			SetUpdate(bson.M{"$set": a}).
			SetUpsert(true))
	}

	_, err := r.collection.BulkWrite(ctx, models)
	return err
}

func (r *ArtworkRepository) FindByID(ctx context.Context, artworkID string) (*domain.Artwork, error) {
	var artwork domain.Artwork
	err := r.collection.FindOne(ctx, bson.M{"artworkId": artworkID}).Decode(&artwork)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &artwork, err
}

func (r *ArtworkRepository) FindByProjectID(ctx context.Context, projectID string) ([]*domain.Artwork, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var artworks []*domain.Artwork
	err = cursor.All(ctx, &artworks)
	return artworks, err
}

func (r *ArtworkRepository) FindByFlowID(ctx context.Context, flowID string) ([]*domain.Artwork, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"flowId": flowID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var artworks []*domain.Artwork
	err = cursor.All(ctx, &artworks)
	return artworks, err
}

func (r *ArtworkRepository) Delete(ctx context.Context, artworkID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"artworkId": artworkID})
	return err
}
