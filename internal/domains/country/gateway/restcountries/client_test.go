package restcountries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-currency-api/internal/domains/country/gateway"
	"country-currency-api/internal/domains/country/model"
)

const sample = `[
  {"name":"Nigeria","capital":"Abuja","region":"Africa","population":206139589,
   "flag":"https://flagcdn.com/ng.svg","currencies":[{"code":"NGN","name":"Nigerian naira","symbol":"₦"}]},
  {"name":"Antarctica","region":"Polar","population":1000,"flag":"https://flagcdn.com/aq.svg"},
  {"name":"Switzerland","capital":"Bern","region":"Europe","population":8636896,
   "currencies":[{"code":"CHF"},{"code":"EUR"}]},
  "garbage"
]`

func TestFetchCountries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	entries, err := NewClient(srv.URL, srv.Client()).FetchCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Nigeria", entries[0].Name)
	assert.Equal(t, "Abuja", entries[0].Capital)
	assert.Equal(t, int64(206139589), entries[0].Population)
	assert.Equal(t, "NGN", entries[0].FirstCurrency())

	assert.Empty(t, entries[1].Capital)
	assert.Empty(t, entries[1].FirstCurrency())

	assert.Equal(t, []string{"CHF", "EUR"}, entries[2].CurrencyCodes)
	assert.Equal(t, "CHF", entries[2].FirstCurrency())
}

func TestFetchCountriesUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"name":`))
		}},
		{"not an array", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":404}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, srv.Client()).FetchCountries(context.Background())
			require.Error(t, err)
			assert.True(t, model.IsUpstreamUnavailable(err))
		})
	}
}

func TestFetchCountriesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, gateway.NewHTTPClient(20*time.Millisecond)).FetchCountries(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsUpstreamUnavailable(err))
}
