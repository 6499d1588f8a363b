package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"country-currency-api/internal/domains/country/gateway"
	"country-currency-api/internal/domains/country/model"
	"country-currency-api/internal/domains/country/repository"
	"country-currency-api/internal/infrastructure/metrics"
)

// refreshService implements RefreshServiceInterface
type refreshService struct {
	repo       repository.RepositoryInterface
	countries  gateway.CountryDirectory
	rates      gateway.RateProvider
	summary    SummaryServiceInterface // nil = không tạo ảnh
	multiplier MultiplierFunc
	now        func() time.Time
}

// RefreshOption tùy chỉnh refreshService (chủ yếu cho tests)
type RefreshOption func(*refreshService)

// WithMultiplier thay nguồn hệ số ngẫu nhiên
func WithMultiplier(fn MultiplierFunc) RefreshOption {
	return func(s *refreshService) { s.multiplier = fn }
}

// WithClock thay time.Now
func WithClock(now func() time.Time) RefreshOption {
	return func(s *refreshService) { s.now = now }
}

// NewRefreshService creates a new refresh service instance
func NewRefreshService(
	repo repository.RepositoryInterface,
	countries gateway.CountryDirectory,
	rates gateway.RateProvider,
	summary SummaryServiceInterface,
	opts ...RefreshOption,
) RefreshServiceInterface {
	s := &refreshService{
		repo:       repo,
		countries:  countries,
		rates:      rates,
		summary:    summary,
		multiplier: NewRandomMultiplier(0),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh chạy toàn bộ pipeline. Lỗi fetch trả về trước khi ghi bất kỳ row nào.
func (s *refreshService) Refresh(ctx context.Context) (*model.RefreshResult, error) {
	start := time.Now()

	// Step 1: Fetch external data
	entries, err := s.countries.FetchCountries(ctx)
	if err != nil {
		s.recordFailure(err, start)
		return nil, err
	}
	rates, err := s.rates.FetchRates(ctx)
	if err != nil {
		s.recordFailure(err, start)
		return nil, err
	}

	// Postgres lưu tới microsecond, cắt trước để giá trị trả về khớp DB
	refreshedAt := s.now().UTC().Truncate(time.Microsecond)
	result := &model.RefreshResult{LastRefreshedAt: refreshedAt}

	// Step 2: Process each entry
	for _, entry := range entries {
		country := s.buildCountry(entry, rates, refreshedAt)
		if country == nil {
			continue
		}

		if err := country.Validate(); err != nil {
			log.Warn().Err(err).Str("country", country.Name).Msg("[REFRESH] Skipping invalid country")
			continue
		}

		// Step 3: Upsert
		res, err := s.repo.Upsert(ctx, country)
		if err != nil {
			s.recordFailure(err, start)
			return nil, model.NewStoreError("upsert", err)
		}
		if res.Created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	result.Total = result.Created + result.Updated

	metrics.RecordRefresh(metrics.OutcomeSuccess, result.Created, result.Updated, time.Since(start))
	log.Info().
		Int("refresh_total", result.Total).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Dur("duration", time.Since(start)).
		Msg("[REFRESH] Countries refreshed")

	// Step 4: Summary image (best-effort)
	if s.summary != nil {
		if path, err := s.summary.Generate(ctx); err != nil {
			metrics.RecordSummaryFailure()
			log.Error().Err(err).Msg("[REFRESH] Summary image generation failed")
		} else {
			log.Debug().Str("image_path", path).Msg("[REFRESH] Summary image generated")
		}
	}

	return result, nil
}

// buildCountry chuyển entry sang Country; nil nếu tên rỗng
func (s *refreshService) buildCountry(entry gateway.CountryEntry, rates map[string]decimal.Decimal, refreshedAt time.Time) *model.Country {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil
	}

	country := &model.Country{
		Name:            name,
		Capital:         optional(entry.Capital),
		Region:          optional(entry.Region),
		Population:      entry.Population,
		CurrencyCode:    optional(entry.FirstCurrency()),
		FlagURL:         optional(entry.Flag),
		EstimatedGDP:    decimal.Zero,
		LastRefreshedAt: refreshedAt,
	}

	if country.CurrencyCode == nil {
		return country
	}
	rate, ok := rates[*country.CurrencyCode]
	if !ok || !rate.IsPositive() {
		return country
	}

	country.ExchangeRate = decimal.NewNullDecimal(rate)
	country.EstimatedGDP = EstimateGDP(entry.Population, s.multiplier(), rate)
	return country
}

func (s *refreshService) recordFailure(err error, start time.Time) {
	outcome := metrics.OutcomeError
	if model.IsUpstreamUnavailable(err) {
		outcome = metrics.OutcomeUpstream
	}
	metrics.RecordRefresh(outcome, 0, 0, time.Since(start))
	log.Error().Err(err).Str("outcome", outcome).Msg("[REFRESH] Refresh failed")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
