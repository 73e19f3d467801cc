package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenRepository implements the repositories.TokenRepository interface
type TokenRepository struct {
	collection *mongo.Collection
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{
		collection: db.Collection("tokens"),
	}
}

// EnsureIndexes creates the token indexes: the unique code index spans
// deleted records so a soft-deleted code can never be reissued.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tokenCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tokenCode", Value: 1}, {Key: "isUsed", Value: 1}, {Key: "isDeleted", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isUsed", Value: 1}, {Key: "usedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	return err
}

// Create creates a new token
func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	token.CreatedAt = time.Now()
	token.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, token)
	return err
}

// CreateMany inserts a batch of freshly issued tokens
func (r *TokenRepository) CreateMany(ctx context.Context, tokens []*models.Token) error {
	now := time.Now()
	docs := make([]interface{}, 0, len(tokens))
	for _, t := range tokens {
		t.CreatedAt = now
		t.UpdatedAt = now
		docs = append(docs, t)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByCode finds a token by its code regardless of state
func (r *TokenRepository) FindByCode(ctx context.Context, code string) (*models.Token, error) {
	var token models.Token
	err := r.collection.FindOne(ctx, bson.M{"tokenCode": code}).Decode(&token)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, err)
	}
	return &token, nil
}

// FindByID finds a token by ID
func (r *TokenRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error) {
	var token models.Token
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&token)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, err)
	}
	return &token, nil
}

// FindAll finds all tokens that are not soft-deleted, newest first
func (r *TokenRepository) FindAll(ctx context.Context) ([]*models.Token, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"isDeleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []*models.Token
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// FindUsed finds redeemed tokens with pagination, most recently used first
func (r *TokenRepository) FindUsed(ctx context.Context, page, limit int) ([]*models.Token, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"usedAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"isUsed": true, "isDeleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []*models.Token
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// CountUsed counts redeemed, not-deleted tokens
func (r *TokenRepository) CountUsed(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isUsed": true, "isDeleted": false})
}

// CountActive counts tokens that are still claimable at time now
func (r *TokenRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"isUsed":    false,
		"isDeleted": false,
		"expiresAt": bson.M{"$gt": now},
	})
}

// Stats counts tokens per effective status
func (r *TokenRepository) Stats(ctx context.Context, now time.Time) (*models.TokenStats, error) {
	stats := &models.TokenStats{}
	counts := []struct {
		dest   *int64
		filter bson.M
	}{
		{&stats.TotalTokens, bson.M{"isDeleted": false}},
		{&stats.ActiveTokens, bson.M{"isUsed": false, "isDeleted": false, "expiresAt": bson.M{"$gt": now}}},
		{&stats.UsedTokens, bson.M{"isUsed": true, "isDeleted": false}},
		{&stats.ExpiredTokens, bson.M{"isUsed": false, "isDeleted": false, "expiresAt": bson.M{"$lte": now}}},
		{&stats.DeletedTokens, bson.M{"isDeleted": true}},
		{&stats.TotalEverCreated, bson.M{}},
	}

	for _, c := range counts {
		n, err := r.collection.CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}
	return stats, nil
}

// ClaimByCode atomically marks a token used. The filter carries the full
// unused-and-unexpired predicate, so validation and claim are one conditional
// update: of any number of concurrent claims on the same code, the storage
// engine lets exactly one through.
func (r *TokenRepository) ClaimByCode(ctx context.Context, code string, usage models.UsageContext) (*models.Token, error) {
	now := time.Now()
	filter := bson.M{
		"tokenCode": code,
		"isUsed":    false,
		"isDeleted": false,
		"expiresAt": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{
		"isUsed":    true,
		"usedAt":    now,
		"usedBy":    usage,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var token models.Token
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&token)
	if err == nil {
		return &token, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, err)
	}
	return nil, r.classifyClaimFailure(ctx, code)
}

// classifyClaimFailure re-reads a token whose claim missed, to tell the
// caller why
func (r *TokenRepository) classifyClaimFailure(ctx context.Context, code string) error {
	var token models.Token
	err := r.collection.FindOne(ctx, bson.M{"tokenCode": code}).Decode(&token)
	if err == mongo.ErrNoDocuments {
		return models.ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransient, err)
	}
	// the clock must be re-stamped here: the token may have expired in the
	// window between the claim attempt and this read
	return claimRejection(&token, time.Now())
}

// claimRejection maps an unclaimable token onto the failure taxonomy. A token
// that still looks claimable at now was taken by a concurrent request between
// the two reads; that race loss is reported as ErrTokenUsed since the two are
// indistinguishable after the fact.
func claimRejection(token *models.Token, now time.Time) error {
	switch token.Status(now) {
	case models.TokenStatusDeleted:
		return models.ErrTokenDeleted
	case models.TokenStatusExpired:
		return models.ErrTokenExpired
	default:
		return models.ErrTokenUsed
	}
}

// SoftDelete marks one token deleted and retains the record
func (r *TokenRepository) SoftDelete(ctx context.Context, id, actor primitive.ObjectID) (*models.Token, error) {
	now := time.Now()
	filter := bson.M{"_id": id, "isDeleted": false}
	update := bson.M{"$set": bson.M{
		"isDeleted": true,
		"deletedAt": now,
		"deletedBy": actor,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var token models.Token
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&token)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, err)
	}
	return &token, nil
}

// BulkSoftDelete marks every token matching the selector deleted
func (r *TokenRepository) BulkSoftDelete(ctx context.Context, selector repositories.TokenBulkSelector, actor primitive.ObjectID) (int64, error) {
	query := bson.M{"isDeleted": false}
	switch selector {
	case repositories.SelectExpired:
		query["isUsed"] = false
		query["expiresAt"] = bson.M{"$lte": time.Now()}
	case repositories.SelectUsed:
		query["isUsed"] = true
	case repositories.SelectAllUnused:
		query["isUsed"] = false
	default:
		return 0, fmt.Errorf("%w: unknown bulk selector %q", models.ErrInvalidInput, selector)
	}

	now := time.Now()
	result, err := r.collection.UpdateMany(ctx, query, bson.M{"$set": bson.M{
		"isDeleted": true,
		"deletedAt": now,
		"deletedBy": actor,
		"updatedAt": now,
	}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// HardDeleteExpired permanently removes tokens that are both unused and past
// expiry. Used tokens are never purged; their codes stay burned forever.
func (r *TokenRepository) HardDeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"isUsed":    false,
		"expiresAt": bson.M{"$lte": time.Now()},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
