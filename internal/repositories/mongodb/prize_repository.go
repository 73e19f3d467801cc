package mongodb

import (
	"context"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PrizeRepository implements the repositories.PrizeRepository interface
type PrizeRepository struct {
	collection *mongo.Collection
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *mongo.Database) *PrizeRepository {
	return &PrizeRepository{
		collection: db.Collection("prizes"),
	}
}

// EnsureIndexes creates the prize indexes
func (r *PrizeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "position", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "position", Value: 1}}},
	})
	return err
}

// Create creates a new prize
func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	prize.CreatedAt = time.Now()
	prize.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, prize)
	return err
}

// FindByID finds a prize by ID
func (r *PrizeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error) {
	var prize models.Prize
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prize)
	if err != nil {
		return nil, err
	}
	return &prize, nil
}

// FindAll finds all prizes, newest first
func (r *PrizeRepository) FindAll(ctx context.Context) ([]*models.Prize, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prizes []*models.Prize
	if err := cursor.All(ctx, &prizes); err != nil {
		return nil, err
	}
	return prizes, nil
}

// FindActive finds active prizes in wheel order: position ascending, then
// creation order. The selector and the display both consume this ordering;
// it must stay deterministic.
func (r *PrizeRepository) FindActive(ctx context.Context) ([]*models.Prize, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "position", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prizes []*models.Prize
	if err := cursor.All(ctx, &prizes); err != nil {
		return nil, err
	}
	return prizes, nil
}

// CountActive counts active prizes
func (r *PrizeRepository) CountActive(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isActive": true})
}

// Update updates a prize
func (r *PrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	prize.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": prize.ID}, prize)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete deletes a prize
func (r *PrizeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
