package exchangerate

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"country-currency-api/internal/domains/country/gateway"
	"country-currency-api/internal/domains/country/model"
)

// Source là tên hiển thị trong error details
const Source = "Exchange Rate API"

// =====================================================
// EXCHANGE RATE CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates new exchange-rate client (open.er-api.com format)
func NewClient(url string, httpClient *http.Client) gateway.RateProvider {
	if httpClient == nil {
		httpClient = gateway.NewHTTPClient(gateway.DefaultTimeout)
	}
	return &Client{url: url, httpClient: httpClient}
}

// FetchRates đọc object "rates". Thiếu "rates" trả về map rỗng;
// rate không phải số bị bỏ qua.
func (c *Client) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	doc, err := gateway.GetJSON(ctx, c.httpClient, c.url, Source)
	if err != nil {
		return nil, err
	}
	if !doc.IsObject() {
		return nil, model.NewUpstreamUnavailable(Source, errors.New("expected a JSON object"))
	}

	rates := make(map[string]decimal.Decimal)
	doc.Get("rates").ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			return true
		}
		// Raw giữ nguyên chữ số, tránh sai số float64
		rate, err := decimal.NewFromString(value.Raw)
		if err != nil {
			log.Debug().Str("currency", key.String()).Str("raw", value.Raw).Msg("skip unparsable rate")
			return true
		}
		rates[strings.TrimSpace(key.String())] = rate
		return true
	})
	return rates, nil
}
