package model

import (
	"fmt"
	"strings"
	"time"
)

// SortOrder là một trong sáu thứ tự mà GET /countries chấp nhận
type SortOrder string

const (
	SortNone           SortOrder = ""
	SortGDPAsc         SortOrder = "gdp_asc"
	SortGDPDesc        SortOrder = "gdp_desc"
	SortPopulationAsc  SortOrder = "population_asc"
	SortPopulationDesc SortOrder = "population_desc"
	SortNameAsc        SortOrder = "name_asc"
	SortNameDesc       SortOrder = "name_desc"
)

// SortOrders liệt kê các giá trị hợp lệ theo thứ tự hiển thị
var SortOrders = []SortOrder{
	SortGDPAsc, SortGDPDesc,
	SortPopulationAsc, SortPopulationDesc,
	SortNameAsc, SortNameDesc,
}

// ParseSortOrder trả về ValidationError nếu giá trị không nằm trong SortOrders
func ParseSortOrder(raw string) (SortOrder, error) {
	if raw == "" {
		return SortNone, nil
	}
	for _, s := range SortOrders {
		if string(s) == raw {
			return s, nil
		}
	}
	return SortNone, NewValidationError(map[string]string{
		"sort": fmt.Sprintf("%q is not a valid choice", raw),
	})
}

// ListCountriesRequest bind từ query string của GET /countries
type ListCountriesRequest struct {
	Region   string `form:"region" binding:"omitempty,max=100"`
	Currency string `form:"currency" binding:"omitempty,max=10"`
	Sort     string `form:"sort" binding:"omitempty,oneof=gdp_asc gdp_desc population_asc population_desc name_asc name_desc"`
}

// ToFilter chuyển request đã bind sang ListFilter cho service/repository
func (r ListCountriesRequest) ToFilter() (ListFilter, error) {
	sort, err := ParseSortOrder(strings.TrimSpace(r.Sort))
	if err != nil {
		return ListFilter{}, err
	}
	return ListFilter{
		Region:   strings.TrimSpace(r.Region),
		Currency: strings.TrimSpace(r.Currency),
		Sort:     sort,
	}, nil
}

// ListFilter: Region/Currency rỗng nghĩa là không lọc
type ListFilter struct {
	Region   string
	Currency string
	Sort     SortOrder
}

// RefreshResponse là body của POST /countries/refresh
type RefreshResponse struct {
	Message         string    `json:"message"`
	TotalCountries  int       `json:"total_countries"`
	Created         int       `json:"created"`
	Updated         int       `json:"updated"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

// NewRefreshResponse build response từ RefreshResult
func NewRefreshResponse(result *RefreshResult) RefreshResponse {
	return RefreshResponse{
		Message:         "Countries refreshed successfully",
		TotalCountries:  result.Total,
		Created:         result.Created,
		Updated:         result.Updated,
		LastRefreshedAt: result.LastRefreshedAt,
	}
}

// MessageResponse dùng cho DELETE /countries/:name
type MessageResponse struct {
	Message string `json:"message"`
}
