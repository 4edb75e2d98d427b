package market

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]model.Product
	reviews  map[uuid.UUID]model.ProductReview
	seq      int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{
		products: make(map[uuid.UUID]model.Product),
		reviews:  make(map[uuid.UUID]model.ProductReview),
	}
}

func (r *memProductRepo) stamp() time.Time {
	r.seq++
	return time.Unix(int64(r.seq), 0)
}

func pageProducts(out []model.Product, limit, offset int) []model.Product {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (r *memProductRepo) CreateProduct(_ context.Context, p model.Product) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.stamp()
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *memProductRepo) GetProductByID(_ context.Context, id uuid.UUID) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return model.Product{}, customErrors.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) ListProducts(_ context.Context, limit, offset int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return pageProducts(out, limit, offset), nil
}

func (r *memProductRepo) ListOwnerProducts(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return pageProducts(out, limit, offset), nil
}

func (r *memProductRepo) ListProductsByCategory(_ context.Context, category model.ProductCategory, limit, offset int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Category != nil && *p.Category == category {
			out = append(out, p)
		}
	}
	return pageProducts(out, limit, offset), nil
}

func (r *memProductRepo) SearchProducts(_ context.Context, query string, limit, offset int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []model.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return pageProducts(out, limit, offset), nil
}

func (r *memProductRepo) UpdateProduct(_ context.Context, p model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return customErrors.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return customErrors.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) CreateReview(_ context.Context, rev model.ProductReview) (model.ProductReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = r.stamp()
	}
	r.reviews[rev.ID] = rev
	return rev, nil
}

func (r *memProductRepo) GetReviewByID(_ context.Context, id uuid.UUID) (model.ProductReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok {
		return model.ProductReview{}, customErrors.ErrNotFound
	}
	return rev, nil
}

func (r *memProductRepo) ListProductReviews(_ context.Context, productID uuid.UUID, limit, offset int) ([]model.ProductReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ProductReview
	for _, rev := range r.reviews {
		if rev.ProductID == productID {
			out = append(out, rev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memProductRepo) UpdateReview(_ context.Context, rev model.ProductReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[rev.ID]; !ok {
		return customErrors.ErrNotFound
	}
	r.reviews[rev.ID] = rev
	return nil
}

func (r *memProductRepo) DeleteReview(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return customErrors.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

type memActivityRepo struct {
	mu         sync.Mutex
	activities []model.Activity
}

func (r *memActivityRepo) CreateActivity(_ context.Context, a model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, a)
	return nil
}

func (r *memActivityRepo) ListActivities(_ context.Context, _ uuid.UUID, _, _ int) ([]model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activities, nil
}

func newTestService() (*Service, *memActivityRepo) {
	activities := &memActivityRepo{}
	return NewService(newMemProductRepo(), activities, zap.NewNop()), activities
}

func listing(name, description string, price int64) model.Product {
	return model.Product{
		Name:        name,
		Description: description,
		Price:       decimal.NewFromInt(price),
		Quantity:    3,
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ownerID := uuid.New()

	cases := []struct {
		name string
		mod  func(*model.Product)
	}{
		{"empty name", func(p *model.Product) { p.Name = "  " }},
		{"negative price", func(p *model.Product) { p.Price = decimal.NewFromInt(-1) }},
		{"negative quantity", func(p *model.Product) { p.Quantity = -1 }},
		{"unknown category", func(p *model.Product) {
			bad := model.ProductCategory("gadgets")
			p.Category = &bad
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := listing("USB hub", "7 ports", 20)
			p.OwnerID = ownerID
			tc.mod(&p)
			_, err := svc.CreateProduct(ctx, p)
			require.True(t, customErrors.IsInvalidArgument(err))
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	svc, activities := newTestService()
	ctx := context.Background()
	ownerID := uuid.New()

	p := listing("Mechanical keyboard", "tenkeyless, brown switches", 120)
	p.OwnerID = ownerID
	cat := model.CategoryElectronics
	p.Category = &cat
	p.Tags = []string{"keyboard", "mechanical"}

	created, err := svc.CreateProduct(ctx, p)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Mechanical keyboard", got.Name)
	require.Equal(t, []string{"keyboard", "mechanical"}, got.Tags)

	got.Price = decimal.NewFromInt(99)
	_, err = svc.UpdateProduct(ctx, uuid.New(), got)
	require.True(t, customErrors.IsPermissionDenied(err))

	updated, err := svc.UpdateProduct(ctx, ownerID, got)
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(decimal.NewFromInt(99)))
	require.Equal(t, ownerID, updated.OwnerID)

	require.True(t, customErrors.IsPermissionDenied(svc.DeleteProduct(ctx, uuid.New(), created.ID)))

	require.NoError(t, svc.DeleteProduct(ctx, ownerID, created.ID))
	_, err = svc.GetProduct(ctx, created.ID)
	require.True(t, customErrors.IsNotFound(err))

	acts, err := activities.ListActivities(ctx, ownerID, 10, 0)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	require.Equal(t, model.ActivityCreate, acts[0].ActivityType)
	require.Equal(t, model.ActivityDelete, acts[1].ActivityType)
}

func TestListOwnerProducts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ownerID := uuid.New()

	for _, name := range []string{"one", "two"} {
		p := listing(name, "", 10)
		p.OwnerID = ownerID
		_, err := svc.CreateProduct(ctx, p)
		require.NoError(t, err)
	}
	other := listing("stranger", "", 10)
	other.OwnerID = uuid.New()
	_, err := svc.CreateProduct(ctx, other)
	require.NoError(t, err)

	mine, err := svc.ListOwnerProducts(ctx, ownerID, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	all, err := svc.ListProducts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "stranger", all[0].Name)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ownerID := uuid.New()

	seed := []model.Product{
		listing("Trail running shoes", "lightweight with deep lugs", 80),
		listing("Road bike", "carbon frame, runs fast on tarmac", 900),
		listing("Coffee grinder", "conical burr", 45),
	}
	for _, p := range seed {
		p.OwnerID = ownerID
		_, err := svc.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	hits, err := svc.Search(ctx, "RUN", 10, 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	hits, err = svc.Search(ctx, "grinder", 10, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "Coffee grinder", hits[0].Name)

	hits, err = svc.Search(ctx, "   ", 10, 0)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestListByCategory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ownerID := uuid.New()

	categorized := func(name string, cat model.ProductCategory) {
		p := listing(name, "", 15)
		p.OwnerID = ownerID
		p.Category = &cat
		_, err := svc.CreateProduct(ctx, p)
		require.NoError(t, err)
	}
	categorized("novel", model.CategoryBooks)
	categorized("cookbook", model.CategoryBooks)
	categorized("blender", model.CategoryHomeAppliances)

	books, err := svc.ListByCategory(ctx, model.CategoryBooks, 10, 0)
	require.NoError(t, err)
	require.Len(t, books, 2)

	_, err = svc.ListByCategory(ctx, model.ProductCategory("gadgets"), 10, 0)
	require.True(t, customErrors.IsInvalidArgument(err))
}

func TestReviews(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ownerID := uuid.New()
	reviewerID := uuid.New()

	p := listing("Desk lamp", "warm light", 30)
	p.OwnerID = ownerID
	created, err := svc.CreateProduct(ctx, p)
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, reviewerID, created.ID, 0, "")
	require.True(t, customErrors.IsInvalidArgument(err))
	_, err = svc.CreateReview(ctx, reviewerID, created.ID, 6, "")
	require.True(t, customErrors.IsInvalidArgument(err))

	_, err = svc.CreateReview(ctx, reviewerID, uuid.New(), 4, "solid")
	require.True(t, customErrors.IsNotFound(err))

	rev, err := svc.CreateReview(ctx, reviewerID, created.ID, 4, "solid build")
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, uuid.New(), created.ID, 5, "love it")
	require.NoError(t, err)

	reviews, err := svc.ListReviews(ctx, created.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.Equal(t, "love it", reviews[0].Comment)

	_, err = svc.UpdateReview(ctx, uuid.New(), rev.ID, 2, "changed my mind")
	require.True(t, customErrors.IsPermissionDenied(err))

	updated, err := svc.UpdateReview(ctx, reviewerID, rev.ID, 2, "broke after a week")
	require.NoError(t, err)
	require.Equal(t, 2, updated.Rating)

	require.True(t, customErrors.IsPermissionDenied(svc.DeleteReview(ctx, uuid.New(), rev.ID)))
	require.NoError(t, svc.DeleteReview(ctx, reviewerID, rev.ID))

	reviews, err = svc.ListReviews(ctx, created.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
}
