package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Country là một dòng trong bảng countries, unique theo lower(name)
type Country struct {
	ID              int64               `json:"id" db:"id"`
	Name            string              `json:"name" db:"name"`
	Capital         *string             `json:"capital" db:"capital"`
	Region          *string             `json:"region" db:"region"`
	Population      int64               `json:"population" db:"population"`
	CurrencyCode    *string             `json:"currency_code" db:"currency_code"`
	ExchangeRate    decimal.NullDecimal `json:"exchange_rate" db:"exchange_rate"`
	EstimatedGDP    decimal.Decimal     `json:"estimated_gdp" db:"estimated_gdp"`
	FlagURL         *string             `json:"flag_url" db:"flag_url"`
	LastRefreshedAt time.Time           `json:"last_refreshed_at" db:"last_refreshed_at"`
}

// NameKey là khóa so khớp không phân biệt hoa thường
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasGDP báo row có GDP dùng được không (0 nghĩa là không tính được)
func (c *Country) HasGDP() bool {
	return !c.EstimatedGDP.IsZero()
}

// Validate kiểm tra record trước khi upsert
func (c Country) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name,
			validation.Required.Error("name cannot be empty"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&c.Population,
			validation.Min(int64(0)).Error("population must not be negative"),
		),
		validation.Field(&c.CurrencyCode,
			validation.NilOrNotEmpty,
			validation.RuneLength(1, 10),
		),
		validation.Field(&c.Region,
			validation.RuneLength(0, 100),
		),
		validation.Field(&c.Capital,
			validation.RuneLength(0, 255),
		),
	)
}

// UpsertResult cho biết row vừa ghi là insert hay update
type UpsertResult struct {
	Country *Country
	Created bool
}

// Status là snapshot của bảng: tổng số row và lần refresh gần nhất
type Status struct {
	TotalCountries  int        `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// RefreshResult là kết quả tổng hợp của một refresh batch
type RefreshResult struct {
	Total           int       `json:"total_countries"`
	Created         int       `json:"created"`
	Updated         int       `json:"updated"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}
