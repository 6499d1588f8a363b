package service

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-currency-api/internal/domains/country/gateway"
	"country-currency-api/internal/domains/country/model"
	"country-currency-api/internal/domains/country/repository"
)

// =====================================================
// FAKES
// =====================================================

type fakeDirectory struct {
	entries []gateway.CountryEntry
	err     error
}

func (f *fakeDirectory) FetchCountries(ctx context.Context) ([]gateway.CountryEntry, error) {
	return f.entries, f.err
}

type fakeRates struct {
	rates map[string]decimal.Decimal
	err   error
}

func (f *fakeRates) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	return f.rates, f.err
}

type fakeSummary struct {
	calls int
	err   error
}

func (f *fakeSummary) Generate(ctx context.Context) (string, error) {
	f.calls++
	return "fake.png", f.err
}
func (f *fakeSummary) ImagePath() string { return "fake.png" }
func (f *fakeSummary) Exists() bool      { return f.calls > 0 }

type fakeUploader struct {
	mu   sync.Mutex
	keys []string
	size int
}

func (f *fakeUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.size = len(data)
	return "http://minio/" + key, nil
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newRefresh(repo repository.RepositoryInterface, entries []gateway.CountryEntry, rates map[string]decimal.Decimal, opts ...RefreshOption) RefreshServiceInterface {
	return NewRefreshService(repo, &fakeDirectory{entries: entries}, &fakeRates{rates: rates}, nil, opts...)
}

// =====================================================
// GDP
// =====================================================

func TestEstimateGDP(t *testing.T) {
	tests := []struct {
		name       string
		population int64
		multiplier string
		rate       string
		want       string
	}{
		{"nigeria fixed", 200000000, "1500", "1600", "187500000"},
		{"rounds to two places", 1, "1000", "3", "333.33"},
		{"rounds half up", 1, "1000.005", "1", "1000.01"},
		{"zero rate", 100, "1500", "0", "0"},
		{"zero population", 0, "1500", "1", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateGDP(tt.population, d(tt.multiplier), d(tt.rate))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestRandomMultiplierRange(t *testing.T) {
	mult := NewRandomMultiplier(42)
	lo, hi := decimal.NewFromInt(1000), decimal.NewFromInt(2000)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				v := mult()
				assert.True(t, v.GreaterThanOrEqual(lo) && v.LessThan(hi), "multiplier %s out of range", v)
			}
		}()
	}
	wg.Wait()
}

// =====================================================
// REFRESH
// =====================================================

func TestRefreshNigeriaExample(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newRefresh(repo,
		[]gateway.CountryEntry{{Name: "Nigeria", Population: 200000000, CurrencyCodes: []string{"NGN"}}},
		map[string]decimal.Decimal{"NGN": d("1600")},
	)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Created)

	got, err := NewCountryService(repo).GetCountry(context.Background(), "nigeria")
	require.NoError(t, err)
	assert.True(t, got.EstimatedGDP.GreaterThanOrEqual(d("125000000")))
	assert.True(t, got.EstimatedGDP.LessThanOrEqual(d("250000000")))
	assert.True(t, got.ExchangeRate.Valid)
	assert.Equal(t, "NGN", *got.CurrencyCode)
}

func TestRefreshIsIdempotentOnIdentity(t *testing.T) {
	repo := repository.NewMemoryRepository()
	entries := []gateway.CountryEntry{
		{Name: "Ghana", Capital: "Accra", Region: "Africa", Population: 31072940, CurrencyCodes: []string{"GHS"}},
		{Name: "Antarctica", Region: "Polar", Population: 1000},
	}
	rates := map[string]decimal.Decimal{"GHS": d("15.34")}

	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	res, err := newRefresh(repo, entries, rates, WithClock(fixedClock(first))).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RefreshResult{Total: 2, Created: 2, Updated: 0, LastRefreshedAt: first}, *res)

	res, err = newRefresh(repo, entries, rates, WithClock(fixedClock(second))).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)

	all, err := repo.List(context.Background(), model.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ghana", all[0].Name)
	assert.True(t, second.Equal(all[0].LastRefreshedAt))
	assert.True(t, all[0].EstimatedGDP.IsPositive())
	assert.True(t, all[1].EstimatedGDP.IsZero())
	assert.False(t, all[1].ExchangeRate.Valid)
}

func TestRefreshCollapsesCaseDuplicates(t *testing.T) {
	repo := repository.NewMemoryRepository()
	res, err := newRefresh(repo,
		[]gateway.CountryEntry{{Name: "Nigeria", Population: 1}, {Name: "nigeria", Population: 2}},
		nil,
	).Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Total)

	status, err := repo.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalCountries)

	got, err := repo.GetByName(context.Background(), "NIGERIA")
	require.NoError(t, err)
	assert.Equal(t, "nigeria", got.Name)
	assert.Equal(t, int64(2), got.Population)
}

func TestRefreshMissingRate(t *testing.T) {
	repo := repository.NewMemoryRepository()
	_, err := newRefresh(repo,
		[]gateway.CountryEntry{
			{Name: "Nowhere", Population: 10},
			{Name: "Blank", Population: 10, CurrencyCodes: []string{""}},
			{Name: "Unknown", Population: 10, CurrencyCodes: []string{"XXX"}},
			{Name: "Zero", Population: 10, CurrencyCodes: []string{"ZZZ"}},
		},
		map[string]decimal.Decimal{"ZZZ": decimal.Zero},
	).Refresh(context.Background())
	require.NoError(t, err)

	for _, name := range []string{"Nowhere", "Blank", "Unknown", "Zero"} {
		got, err := repo.GetByName(context.Background(), name)
		require.NoError(t, err)
		require.NotNil(t, got, name)
		assert.False(t, got.ExchangeRate.Valid, name)
		assert.True(t, got.EstimatedGDP.IsZero(), name)
	}

	blank, _ := repo.GetByName(context.Background(), "Blank")
	assert.Nil(t, blank.CurrencyCode)
	unknown, _ := repo.GetByName(context.Background(), "Unknown")
	require.NotNil(t, unknown.CurrencyCode)
	assert.Equal(t, "XXX", *unknown.CurrencyCode)
}

func TestRefreshSkipsInvalidEntries(t *testing.T) {
	repo := repository.NewMemoryRepository()
	res, err := newRefresh(repo,
		[]gateway.CountryEntry{
			{Name: "   "},
			{Name: "Negative", Population: -5},
			{Name: "  Togo  ", Population: 8},
		},
		nil,
	).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	got, err := repo.GetByName(context.Background(), "togo")
	require.NoError(t, err)
	assert.Equal(t, "Togo", got.Name)
}

func TestRefreshFixedMultiplier(t *testing.T) {
	repo := repository.NewMemoryRepository()
	_, err := newRefresh(repo,
		[]gateway.CountryEntry{{Name: "Nigeria", Population: 200000000, CurrencyCodes: []string{"NGN"}}},
		map[string]decimal.Decimal{"NGN": d("1600")},
		WithMultiplier(FixedMultiplier(d("1500"))),
	).Refresh(context.Background())
	require.NoError(t, err)

	got, _ := repo.GetByName(context.Background(), "Nigeria")
	assert.True(t, got.EstimatedGDP.Equal(d("187500000")))
}

func TestRefreshUpstreamFailureWritesNothing(t *testing.T) {
	upstreamErr := model.NewUpstreamUnavailable("Exchange Rate API", errors.New("timeout"))

	tests := []struct {
		name      string
		directory *fakeDirectory
		rates     *fakeRates
	}{
		{"countries down", &fakeDirectory{err: model.NewUpstreamUnavailable("REST Countries API", errors.New("502"))}, &fakeRates{}},
		{"rates down", &fakeDirectory{entries: []gateway.CountryEntry{{Name: "Ghana"}}}, &fakeRates{err: upstreamErr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewMemoryRepository()
			summary := &fakeSummary{}
			svc := NewRefreshService(repo, tt.directory, tt.rates, summary)

			_, err := svc.Refresh(context.Background())
			require.Error(t, err)
			assert.True(t, model.IsUpstreamUnavailable(err))

			status, err := repo.Status(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, status.TotalCountries)
			assert.Equal(t, 0, summary.calls)
		})
	}
}

func TestRefreshSwallowsSummaryFailure(t *testing.T) {
	repo := repository.NewMemoryRepository()
	summary := &fakeSummary{err: errors.New("disk full")}
	svc := NewRefreshService(repo,
		&fakeDirectory{entries: []gateway.CountryEntry{{Name: "Ghana", Population: 1}}},
		&fakeRates{},
		summary,
	)

	res, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, summary.calls)
}

// =====================================================
// QUERY
// =====================================================

func seedQueryData(t *testing.T) repository.RepositoryInterface {
	t.Helper()
	repo := repository.NewMemoryRepository()
	_, err := newRefresh(repo,
		[]gateway.CountryEntry{
			{Name: "Nigeria", Region: "Africa", Population: 200000000, CurrencyCodes: []string{"NGN"}},
			{Name: "Antarctica", Region: "Polar", Population: 1000},
			{Name: "Ghana", Region: "Africa", Population: 31000000, CurrencyCodes: []string{"GHS"}},
			{Name: "France", Region: "Europe", Population: 67000000, CurrencyCodes: []string{"EUR"}},
			{Name: "Bouvet Island", Region: "Antarctic Ocean", Population: 0},
		},
		map[string]decimal.Decimal{"NGN": d("1600"), "GHS": d("15.34"), "EUR": d("0.92")},
	).Refresh(context.Background())
	require.NoError(t, err)
	return repo
}

func TestListGDPOrdersMirrorWithMissingAtTail(t *testing.T) {
	svc := NewCountryService(seedQueryData(t))
	ctx := context.Background()

	desc, err := svc.ListCountries(ctx, model.ListFilter{Sort: model.SortGDPDesc})
	require.NoError(t, err)
	asc, err := svc.ListCountries(ctx, model.ListFilter{Sort: model.SortGDPAsc})
	require.NoError(t, err)
	require.Len(t, desc, 5)
	require.Len(t, asc, 5)

	var withGDPDesc, withGDPAsc []string
	for i, c := range desc {
		if c.HasGDP() {
			withGDPDesc = append(withGDPDesc, c.Name)
		} else {
			assert.GreaterOrEqual(t, i, 3, "%s should be at the tail", c.Name)
		}
	}
	for i, c := range asc {
		if c.HasGDP() {
			withGDPAsc = append(withGDPAsc, c.Name)
		} else {
			assert.GreaterOrEqual(t, i, 3, "%s should be at the tail", c.Name)
		}
	}

	require.Len(t, withGDPDesc, 3)
	for i := range withGDPDesc {
		assert.Equal(t, withGDPDesc[i], withGDPAsc[len(withGDPAsc)-1-i])
	}
}

func TestListRejectsUnknownSort(t *testing.T) {
	svc := NewCountryService(repository.NewMemoryRepository())
	_, err := svc.ListCountries(context.Background(), model.ListFilter{Sort: "size_desc"})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestGetIgnoresCase(t *testing.T) {
	svc := NewCountryService(seedQueryData(t))
	ctx := context.Background()

	upper, err := svc.GetCountry(ctx, "NIGERIA")
	require.NoError(t, err)
	exact, err := svc.GetCountry(ctx, "Nigeria")
	require.NoError(t, err)
	assert.Equal(t, exact, upper)

	_, err = svc.GetCountry(ctx, "Atlantis")
	assert.True(t, model.IsNotFound(err))
}

func TestDeleteThenNotFound(t *testing.T) {
	svc := NewCountryService(seedQueryData(t))
	ctx := context.Background()

	deleted, err := svc.DeleteCountry(ctx, "ghana")
	require.NoError(t, err)
	assert.Equal(t, "Ghana", deleted.Name)

	_, err = svc.GetCountry(ctx, "Ghana")
	assert.True(t, model.IsNotFound(err))

	_, err = svc.DeleteCountry(ctx, "Ghana")
	assert.True(t, model.IsNotFound(err))

	status, err := svc.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, status.TotalCountries)
}

// =====================================================
// SUMMARY
// =====================================================

func TestSummaryLine(t *testing.T) {
	assert.Equal(t, "1. Nigeria: $187,500,000.00", SummaryLine(1, &model.Country{Name: "Nigeria", EstimatedGDP: d("187500000")}))
	assert.Equal(t, "2. Ghana: $1,234.50", SummaryLine(2, &model.Country{Name: "Ghana", EstimatedGDP: d("1234.5")}))
	assert.Equal(t, "5. Antarctica: N/A", SummaryLine(5, &model.Country{Name: "Antarctica"}))
}

func TestSummaryGenerate(t *testing.T) {
	repo := seedQueryData(t)
	path := filepath.Join(t.TempDir(), "cache", "summary.png")
	uploader := &fakeUploader{}

	svc := NewSummaryService(repo, path, "", uploader)
	assert.False(t, svc.Exists())
	assert.Equal(t, path, svc.ImagePath())

	got, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.True(t, svc.Exists())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	assert.Equal(t, []string{SummaryObjectKey}, uploader.keys)
	assert.Greater(t, uploader.size, 0)
}

func TestSummaryGenerateEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.png")
	svc := NewSummaryService(repository.NewMemoryRepository(), path, "/nonexistent/font.ttf", nil)

	_, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.True(t, svc.Exists())
}
