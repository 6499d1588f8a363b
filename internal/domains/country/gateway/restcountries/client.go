package restcountries

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"country-currency-api/internal/domains/country/gateway"
	"country-currency-api/internal/domains/country/model"
)

// Source là tên hiển thị trong error details
const Source = "REST Countries API"

// =====================================================
// REST COUNTRIES CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates new REST Countries client
func NewClient(url string, httpClient *http.Client) gateway.CountryDirectory {
	if httpClient == nil {
		httpClient = gateway.NewHTTPClient(gateway.DefaultTimeout)
	}
	return &Client{url: url, httpClient: httpClient}
}

// FetchCountries đọc mảng country; phần tử không phải object bị bỏ qua
func (c *Client) FetchCountries(ctx context.Context) ([]gateway.CountryEntry, error) {
	doc, err := gateway.GetJSON(ctx, c.httpClient, c.url, Source)
	if err != nil {
		return nil, err
	}
	if !doc.IsArray() {
		return nil, model.NewUpstreamUnavailable(Source, errors.New("expected a JSON array"))
	}

	items := doc.Array()
	entries := make([]gateway.CountryEntry, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		entries = append(entries, parseEntry(item))
	}
	return entries, nil
}

func parseEntry(item gjson.Result) gateway.CountryEntry {
	entry := gateway.CountryEntry{
		Name:       item.Get("name").String(),
		Capital:    strings.TrimSpace(item.Get("capital").String()),
		Region:     strings.TrimSpace(item.Get("region").String()),
		Population: item.Get("population").Int(),
		Flag:       strings.TrimSpace(item.Get("flag").String()),
	}

	for _, cur := range item.Get("currencies").Array() {
		entry.CurrencyCodes = append(entry.CurrencyCodes, strings.TrimSpace(cur.Get("code").String()))
	}
	return entry
}
