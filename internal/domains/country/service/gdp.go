package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	minMultiplier = 1000
	maxMultiplier = 2000
	gdpScale      = 2
)

// MultiplierFunc trả về hệ số trong [1000, 2000); tests inject giá trị cố định
type MultiplierFunc func() decimal.Decimal

// NewRandomMultiplier tạo MultiplierFunc dùng chung một *rand.Rand có mutex,
// an toàn khi nhiều refresh chạy song song.
func NewRandomMultiplier(seed int64) MultiplierFunc {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var (
		mu  sync.Mutex
		rng = rand.New(rand.NewSource(seed))
	)
	return func() decimal.Decimal {
		mu.Lock()
		f := rng.Float64()
		mu.Unlock()
		return decimal.NewFromFloat(minMultiplier + f*(maxMultiplier-minMultiplier))
	}
}

// FixedMultiplier luôn trả về cùng một giá trị
func FixedMultiplier(v decimal.Decimal) MultiplierFunc {
	return func() decimal.Decimal { return v }
}

// EstimateGDP = population × multiplier ÷ rate, làm tròn 2 chữ số (half-up).
// Rate không dương → 0.
func EstimateGDP(population int64, multiplier, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() || population <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(population).Mul(multiplier).Div(rate).Round(gdpScale)
}
