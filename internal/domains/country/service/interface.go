package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"country-currency-api/internal/domains/country/model"
)

// RefreshServiceInterface đồng bộ bảng countries từ hai upstream API
type RefreshServiceInterface interface {
	// Refresh fetch, tính GDP và upsert toàn bộ; summary image được tạo lại best-effort
	Refresh(ctx context.Context) (*model.RefreshResult, error)
}

// CountryServiceInterface defines read/delete operations for Country domain
type CountryServiceInterface interface {
	// ListCountries validates filter.Sort rồi query repository
	ListCountries(ctx context.Context, filter model.ListFilter) ([]*model.Country, error)

	// ExportCountries build workbook từ cùng kết quả với ListCountries
	ExportCountries(ctx context.Context, filter model.ListFilter) (*excelize.File, error)

	// GetCountry lookup không phân biệt hoa thường, NotFound nếu không có
	GetCountry(ctx context.Context, name string) (*model.Country, error)

	// DeleteCountry xóa row và trả về bản đã xóa, NotFound nếu không có
	DeleteCountry(ctx context.Context, name string) (*model.Country, error)

	// GetStatus returns total rows and last refresh time
	GetStatus(ctx context.Context) (*model.Status, error)
}

// SummaryServiceInterface render summary PNG
type SummaryServiceInterface interface {
	// Generate ghi ảnh ra ImagePath và trả về path
	Generate(ctx context.Context) (string, error)

	// ImagePath là nơi ảnh được ghi
	ImagePath() string

	// Exists báo ảnh đã được tạo hay chưa
	Exists() bool
}
