package repository

import (
	"context"

	"country-currency-api/internal/domains/country/model"
)

// RepositoryInterface defines all data access operations for Country domain.
// Name matching luôn không phân biệt hoa thường.
type RepositoryInterface interface {
	// Upsert insert hoặc overwrite toàn bộ row có cùng lower(name)
	// Created = true nếu row mới được tạo
	Upsert(ctx context.Context, country *model.Country) (*model.UpsertResult, error)

	// List lọc theo region/currency và sắp xếp theo filter.Sort
	List(ctx context.Context, filter model.ListFilter) ([]*model.Country, error)

	// GetByName returns nil if not found
	GetByName(ctx context.Context, name string) (*model.Country, error)

	// DeleteByName xóa và trả về row đã xóa, nil nếu không có
	DeleteByName(ctx context.Context, name string) (*model.Country, error)

	// Status returns total rows and max(last_refreshed_at)
	Status(ctx context.Context) (*model.Status, error)

	// TopByGDP returns up to limit rows in gdp_desc order
	TopByGDP(ctx context.Context, limit int) ([]*model.Country, error)
}
