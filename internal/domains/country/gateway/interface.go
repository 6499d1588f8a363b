package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACES
// =====================================================

// CountryDirectory là nguồn danh sách quốc gia (REST Countries)
type CountryDirectory interface {
	// FetchCountries trả về toàn bộ entries, lỗi luôn là UpstreamUnavailable
	FetchCountries(ctx context.Context) ([]CountryEntry, error)
}

// RateProvider là nguồn tỉ giá so với USD
type RateProvider interface {
	// FetchRates trả về map currency code → rate
	FetchRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// =====================================================
// COMMON TYPES
// =====================================================

// CountryEntry là một phần tử trong response của country directory.
// Các field string rỗng nghĩa là upstream không gửi.
type CountryEntry struct {
	Name          string
	Capital       string
	Region        string
	Population    int64
	Flag          string
	CurrencyCodes []string // theo thứ tự upstream trả về
}

// FirstCurrency trả về code đầu tiên, "" nếu mảng rỗng hoặc code đầu trống
func (e CountryEntry) FirstCurrency() string {
	if len(e.CurrencyCodes) == 0 {
		return ""
	}
	return e.CurrencyCodes[0]
}
