package service

import (
	"context"
	"strings"

	"country-currency-api/internal/domains/country/model"
	"country-currency-api/internal/domains/country/repository"
)

// countryService implements CountryServiceInterface
type countryService struct {
	repo repository.RepositoryInterface
}

// NewCountryService creates a new country service instance
// Dependency injection pattern - receives repository from container
func NewCountryService(repo repository.RepositoryInterface) CountryServiceInterface {
	return &countryService{repo: repo}
}

// ListCountries retrieves countries matching the filter
func (s *countryService) ListCountries(ctx context.Context, filter model.ListFilter) ([]*model.Country, error) {
	// Sort không hợp lệ phải bị chặn trước khi chạm DB
	if _, err := model.ParseSortOrder(string(filter.Sort)); err != nil {
		return nil, err
	}

	countries, err := s.repo.List(ctx, filter)
	if err != nil {
		if model.IsValidation(err) {
			return nil, err
		}
		return nil, model.NewStoreError("list countries", err)
	}
	return countries, nil
}

// GetCountry retrieves a country by case-insensitive name
func (s *countryService) GetCountry(ctx context.Context, name string) (*model.Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewCountryNotFound(name)
	}

	country, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, model.NewStoreError("get country", err)
	}
	if country == nil {
		return nil, model.NewCountryNotFound(name)
	}
	return country, nil
}

// DeleteCountry removes a country by case-insensitive name
func (s *countryService) DeleteCountry(ctx context.Context, name string) (*model.Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewCountryNotFound(name)
	}

	deleted, err := s.repo.DeleteByName(ctx, name)
	if err != nil {
		return nil, model.NewStoreError("delete country", err)
	}
	if deleted == nil {
		return nil, model.NewCountryNotFound(name)
	}
	return deleted, nil
}

// GetStatus returns row count and last refresh timestamp
func (s *countryService) GetStatus(ctx context.Context) (*model.Status, error) {
	status, err := s.repo.Status(ctx)
	if err != nil {
		return nil, model.NewStoreError("status", err)
	}
	return status, nil
}
