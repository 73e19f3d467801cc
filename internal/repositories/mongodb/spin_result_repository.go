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

// SpinResultRepository implements the repositories.SpinResultRepository interface
type SpinResultRepository struct {
	collection *mongo.Collection
}

// NewSpinResultRepository creates a new SpinResultRepository
func NewSpinResultRepository(db *mongo.Database) *SpinResultRepository {
	return &SpinResultRepository{
		collection: db.Collection("spinresults"),
	}
}

// EnsureIndexes creates the result ledger indexes
func (r *SpinResultRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tokenCode", Value: 1}}},
	})
	return err
}

// Create appends a spin result. Results are never updated afterwards.
func (r *SpinResultRepository) Create(ctx context.Context, result *models.SpinResult) error {
	result.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, result)
	return err
}

// FindAll finds spin results with pagination, newest first
func (r *SpinResultRepository) FindAll(ctx context.Context, page, limit int) ([]*models.SpinResult, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*models.SpinResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Count counts all spin results
func (r *SpinResultRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// DistinctTokenCodes returns the distinct token codes in the ledger
func (r *SpinResultRepository) DistinctTokenCodes(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "tokenCode", bson.M{})
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(values))
	for _, v := range values {
		if code, ok := v.(string); ok {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// CountByPrizeName groups the ledger by denormalized prize name
func (r *SpinResultRepository) CountByPrizeName(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$prizeName",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Name  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Count
	}
	return counts, nil
}

// Delete removes a spin result
func (r *SpinResultRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
