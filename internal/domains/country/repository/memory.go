package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"country-currency-api/internal/domains/country/model"
)

// memoryRepository giữ countries trong map, key = NameKey(name).
// Dùng cho STORE_DRIVER=memory và service tests.
type memoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[string]*model.Country
}

// NewMemoryRepository creates an empty in-memory country repository
func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{
		nextID: 1,
		rows:   make(map[string]*model.Country),
	}
}

func clone(c *model.Country) *model.Country {
	cp := *c
	return &cp
}

func (r *memoryRepository) Upsert(ctx context.Context, c *model.Country) (*model.UpsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := model.NameKey(c.Name)
	if key == "" {
		return nil, fmt.Errorf("failed to upsert country: empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row := clone(c)
	existing, found := r.rows[key]
	if found {
		row.ID = existing.ID
	} else {
		row.ID = r.nextID
		r.nextID++
	}
	r.rows[key] = row

	return &model.UpsertResult{Country: clone(row), Created: !found}, nil
}

func matches(c *model.Country, filter model.ListFilter) bool {
	if filter.Region != "" && (c.Region == nil || !strings.EqualFold(*c.Region, filter.Region)) {
		return false
	}
	if filter.Currency != "" && (c.CurrencyCode == nil || !strings.EqualFold(*c.CurrencyCode, filter.Currency)) {
		return false
	}
	return true
}

// compareGDP đặt row không có GDP ở cuối, bất kể chiều sắp xếp
func compareGDP(a, b *model.Country, desc bool) int {
	switch {
	case !a.HasGDP() && !b.HasGDP():
		return 0
	case !a.HasGDP():
		return 1
	case !b.HasGDP():
		return -1
	}
	if desc {
		return b.EstimatedGDP.Cmp(a.EstimatedGDP)
	}
	return a.EstimatedGDP.Cmp(b.EstimatedGDP)
}

func compareName(a, b *model.Country) int {
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

func comparator(sort model.SortOrder) (func(a, b *model.Country) int, error) {
	var primary func(a, b *model.Country) int
	switch sort {
	case model.SortNone:
		primary = func(a, b *model.Country) int { return 0 }
	case model.SortGDPAsc:
		primary = func(a, b *model.Country) int { return compareGDP(a, b, false) }
	case model.SortGDPDesc:
		primary = func(a, b *model.Country) int { return compareGDP(a, b, true) }
	case model.SortPopulationAsc:
		primary = func(a, b *model.Country) int { return cmp.Compare(a.Population, b.Population) }
	case model.SortPopulationDesc:
		primary = func(a, b *model.Country) int { return cmp.Compare(b.Population, a.Population) }
	case model.SortNameAsc:
		primary = compareName
	case model.SortNameDesc:
		primary = func(a, b *model.Country) int { return compareName(b, a) }
	default:
		return nil, model.NewValidationError(map[string]string{
			"sort": fmt.Sprintf("%q is not a valid choice", sort),
		})
	}

	return func(a, b *model.Country) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}, nil
}

func (r *memoryRepository) query(ctx context.Context, filter model.ListFilter, limit int) ([]*model.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	less, err := comparator(filter.Sort)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*model.Country, 0, len(r.rows))
	for _, c := range r.rows {
		if matches(c, filter) {
			out = append(out, clone(c))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, less)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Country, error) {
	return r.query(ctx, filter, 0)
}

func (r *memoryRepository) TopByGDP(ctx context.Context, limit int) ([]*model.Country, error) {
	return r.query(ctx, model.ListFilter{Sort: model.SortGDPDesc}, limit)
}

func (r *memoryRepository) GetByName(ctx context.Context, name string) (*model.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.rows[model.NameKey(name)]
	if !ok {
		return nil, nil
	}
	return clone(c), nil
}

func (r *memoryRepository) DeleteByName(ctx context.Context, name string) (*model.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := model.NameKey(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[key]
	if !ok {
		return nil, nil
	}
	delete(r.rows, key)
	return c, nil
}

func (r *memoryRepository) Status(ctx context.Context) (*model.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := &model.Status{TotalCountries: len(r.rows)}
	for _, c := range r.rows {
		if status.LastRefreshedAt == nil || c.LastRefreshedAt.After(*status.LastRefreshedAt) {
			t := c.LastRefreshedAt
			status.LastRefreshedAt = &t
		}
	}
	return status, nil
}
