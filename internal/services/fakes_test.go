package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
)

// fakeTokenRepo is an in-memory TokenRepository. ClaimByCode holds the mutex
// across the check and the mutation, matching the atomicity contract of the
// real store.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.Token

	claimErr  error
	createErr error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*models.Token)}
}

func (r *fakeTokenRepo) add(t *models.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	cp := *t
	r.tokens[t.TokenCode] = &cp
}

func (r *fakeTokenRepo) get(code string) *models.Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[code]; ok {
		cp := *t
		return &cp
	}
	return nil
}

func (r *fakeTokenRepo) Create(_ context.Context, token *models.Token) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(token)
	return nil
}

func (r *fakeTokenRepo) CreateMany(_ context.Context, tokens []*models.Token) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, t := range tokens {
		r.add(t)
	}
	return nil
}

func (r *fakeTokenRepo) FindByCode(_ context.Context, code string) (*models.Token, error) {
	if t := r.get(code); t != nil {
		return t, nil
	}
	return nil, models.ErrTokenNotFound
}

func (r *fakeTokenRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, models.ErrTokenNotFound
}

func (r *fakeTokenRepo) FindAll(_ context.Context) ([]*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Token
	for _, t := range r.tokens {
		if !t.IsDeleted {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) FindUsed(_ context.Context, page, limit int) ([]*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var used []*models.Token
	for _, t := range r.tokens {
		if t.IsUsed && !t.IsDeleted {
			cp := *t
			used = append(used, &cp)
		}
	}
	// most recently used first, like the real store
	sort.Slice(used, func(i, j int) bool {
		return used[i].UsedAt.After(*used[j].UsedAt)
	})
	start := (page - 1) * limit
	if start >= len(used) {
		return nil, nil
	}
	end := start + limit
	if end > len(used) {
		end = len(used)
	}
	return used[start:end], nil
}

func (r *fakeTokenRepo) CountUsed(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tokens {
		if t.IsUsed && !t.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) CountActive(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tokens {
		if t.Status(now) == models.TokenStatusActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) Stats(_ context.Context, now time.Time) (*models.TokenStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.TokenStats{}
	for _, t := range r.tokens {
		stats.TotalEverCreated++
		switch t.Status(now) {
		case models.TokenStatusDeleted:
			stats.DeletedTokens++
			continue
		case models.TokenStatusUsed:
			stats.UsedTokens++
		case models.TokenStatusExpired:
			stats.ExpiredTokens++
		case models.TokenStatusActive:
			stats.ActiveTokens++
		}
		stats.TotalTokens++
	}
	return stats, nil
}

func (r *fakeTokenRepo) ClaimByCode(_ context.Context, code string, usage models.UsageContext) (*models.Token, error) {
	if r.claimErr != nil {
		return nil, r.claimErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t, ok := r.tokens[code]
	if !ok {
		return nil, models.ErrTokenNotFound
	}
	switch t.Status(now) {
	case models.TokenStatusDeleted:
		return nil, models.ErrTokenDeleted
	case models.TokenStatusUsed:
		return nil, models.ErrTokenUsed
	case models.TokenStatusExpired:
		return nil, models.ErrTokenExpired
	}

	t.IsUsed = true
	t.UsedAt = &now
	usageCp := usage
	t.UsedBy = &usageCp
	t.UpdatedAt = now

	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) SoftDelete(_ context.Context, id, actor primitive.ObjectID) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.ID == id && !t.IsDeleted {
			t.IsDeleted = true
			t.DeletedAt = &now
			t.DeletedBy = actor
			cp := *t
			return &cp, nil
		}
	}
	return nil, models.ErrTokenNotFound
}

func (r *fakeTokenRepo) BulkSoftDelete(_ context.Context, selector repositories.TokenBulkSelector, actor primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var count int64
	for _, t := range r.tokens {
		if t.IsDeleted {
			continue
		}
		var match bool
		switch selector {
		case repositories.SelectExpired:
			match = !t.IsUsed && now.After(t.ExpiresAt)
		case repositories.SelectUsed:
			match = t.IsUsed
		case repositories.SelectAllUnused:
			match = !t.IsUsed
		default:
			return 0, models.ErrInvalidInput
		}
		if match {
			t.IsDeleted = true
			t.DeletedAt = &now
			t.DeletedBy = actor
			count++
		}
	}
	return count, nil
}

func (r *fakeTokenRepo) HardDeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var count int64
	for code, t := range r.tokens {
		if !t.IsUsed && !now.Before(t.ExpiresAt) {
			delete(r.tokens, code)
			count++
		}
	}
	return count, nil
}

// fakePrizeRepo is an in-memory PrizeRepository. FindActive returns prizes in
// insertion order, which stands in for the position-then-createdAt sort of the
// real store.
type fakePrizeRepo struct {
	mu      sync.Mutex
	prizes  []*models.Prize
	findErr error
}

func newFakePrizeRepo(prizes ...*models.Prize) *fakePrizeRepo {
	r := &fakePrizeRepo{}
	for _, p := range prizes {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.prizes = append(r.prizes, p)
	}
	return r
}

func (r *fakePrizeRepo) Create(_ context.Context, prize *models.Prize) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prize.ID.IsZero() {
		prize.ID = primitive.NewObjectID()
	}
	r.prizes = append(r.prizes, prize)
	return nil
}

func (r *fakePrizeRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.prizes {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrInvalidInput
}

func (r *fakePrizeRepo) FindAll(_ context.Context) ([]*models.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Prize(nil), r.prizes...), nil
}

func (r *fakePrizeRepo) FindActive(_ context.Context) ([]*models.Prize, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Prize
	for _, p := range r.prizes {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePrizeRepo) CountActive(_ context.Context) (int64, error) {
	active, err := r.FindActive(context.Background())
	if err != nil {
		return 0, err
	}
	return int64(len(active)), nil
}

func (r *fakePrizeRepo) Update(_ context.Context, prize *models.Prize) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.prizes {
		if p.ID == prize.ID {
			r.prizes[i] = prize
			return nil
		}
	}
	return models.ErrInvalidInput
}

func (r *fakePrizeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.prizes {
		if p.ID == id {
			r.prizes = append(r.prizes[:i], r.prizes[i+1:]...)
			return nil
		}
	}
	return models.ErrInvalidInput
}

// fakeResultRepo is an in-memory append-only SpinResultRepository.
type fakeResultRepo struct {
	mu        sync.Mutex
	results   []*models.SpinResult
	createErr error
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{}
}

func (r *fakeResultRepo) Create(_ context.Context, result *models.SpinResult) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	cp := *result
	r.results = append(r.results, &cp)
	return nil
}

func (r *fakeResultRepo) FindAll(_ context.Context, page, limit int) ([]*models.SpinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := (page - 1) * limit
	if start >= len(r.results) {
		return nil, nil
	}
	end := start + limit
	if end > len(r.results) {
		end = len(r.results)
	}
	return append([]*models.SpinResult(nil), r.results[start:end]...), nil
}

func (r *fakeResultRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.results)), nil
}

func (r *fakeResultRepo) DistinctTokenCodes(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var codes []string
	for _, res := range r.results {
		if !seen[res.TokenCode] {
			seen[res.TokenCode] = true
			codes = append(codes, res.TokenCode)
		}
	}
	return codes, nil
}

func (r *fakeResultRepo) CountByPrizeName(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, res := range r.results {
		counts[res.PrizeName]++
	}
	return counts, nil
}

func (r *fakeResultRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, res := range r.results {
		if res.ID == id {
			r.results = append(r.results[:i], r.results[i+1:]...)
			return nil
		}
	}
	return models.ErrInvalidInput
}

var (
	_ repositories.TokenRepository      = (*fakeTokenRepo)(nil)
	_ repositories.PrizeRepository      = (*fakePrizeRepo)(nil)
	_ repositories.SpinResultRepository = (*fakeResultRepo)(nil)
)
