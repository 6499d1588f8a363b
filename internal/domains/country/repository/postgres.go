package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"country-currency-api/internal/domains/country/model"
)

const countryColumns = `id, name, capital, region, population, currency_code,
	exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

// orderClauses map SortOrder → ORDER BY. GDP = 0 được coi là "không có GDP"
// và luôn nằm cuối ở cả hai chiều.
var orderClauses = map[model.SortOrder]string{
	model.SortNone:           "id ASC",
	model.SortGDPAsc:         "NULLIF(estimated_gdp, 0) ASC NULLS LAST, id ASC",
	model.SortGDPDesc:        "NULLIF(estimated_gdp, 0) DESC NULLS LAST, id ASC",
	model.SortPopulationAsc:  "population ASC, id ASC",
	model.SortPopulationDesc: "population DESC, id ASC",
	model.SortNameAsc:        "lower(name) ASC, name ASC, id ASC",
	model.SortNameDesc:       "lower(name) DESC, name DESC, id ASC",
}

// postgresRepository implements RepositoryInterface
// Uses pgxpool for PostgreSQL connection management
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new country repository instance
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// scanCountry đọc một row theo thứ tự countryColumns
func scanCountry(row pgx.Row) (*model.Country, error) {
	var c model.Country
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Capital,
		&c.Region,
		&c.Population,
		&c.CurrencyCode,
		&c.ExchangeRate,
		&c.EstimatedGDP,
		&c.FlagURL,
		&c.LastRefreshedAt,
	)
	if err != nil {
		return nil, err
	}
	c.LastRefreshedAt = c.LastRefreshedAt.UTC()
	return &c, nil
}

// Upsert dựa vào unique index trên lower(name); xmax = 0 nghĩa là row vừa insert
func (r *postgresRepository) Upsert(ctx context.Context, c *model.Country) (*model.UpsertResult, error) {
	query := `
    INSERT INTO countries (name, capital, region, population, currency_code,
                           exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    ON CONFLICT ((lower(name))) DO UPDATE SET
      name              = EXCLUDED.name,
      capital           = EXCLUDED.capital,
      region            = EXCLUDED.region,
      population        = EXCLUDED.population,
      currency_code     = EXCLUDED.currency_code,
      exchange_rate     = EXCLUDED.exchange_rate,
      estimated_gdp     = EXCLUDED.estimated_gdp,
      flag_url          = EXCLUDED.flag_url,
      last_refreshed_at = EXCLUDED.last_refreshed_at
    RETURNING ` + countryColumns + `, (xmax = 0) AS inserted
  `
	args := []interface{}{
		c.Name, c.Capital, c.Region, c.Population, c.CurrencyCode,
		c.ExchangeRate, c.EstimatedGDP, c.FlagURL, c.LastRefreshedAt,
	}

	var (
		out      model.Country
		inserted bool
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.Name,
		&out.Capital,
		&out.Region,
		&out.Population,
		&out.CurrencyCode,
		&out.ExchangeRate,
		&out.EstimatedGDP,
		&out.FlagURL,
		&out.LastRefreshedAt,
		&inserted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert country %q: %w", c.Name, err)
	}
	out.LastRefreshedAt = out.LastRefreshedAt.UTC()

	return &model.UpsertResult{Country: &out, Created: inserted}, nil
}

// buildListQuery trả về SELECT có WHERE/ORDER BY/LIMIT tương ứng filter
func buildListQuery(filter model.ListFilter, limit int) (string, []interface{}, error) {
	order, ok := orderClauses[filter.Sort]
	if !ok {
		return "", nil, model.NewValidationError(map[string]string{
			"sort": fmt.Sprintf("%q is not a valid choice", filter.Sort),
		})
	}

	var (
		conds []string
		args  []interface{}
	)
	if filter.Region != "" {
		args = append(args, filter.Region)
		conds = append(conds, fmt.Sprintf("lower(region) = lower($%d)", len(args)))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		conds = append(conds, fmt.Sprintf("lower(currency_code) = lower($%d)", len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(countryColumns)
	sb.WriteString(" FROM countries")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(order)
	if limit > 0 {
		args = append(args, limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	return sb.String(), args, nil
}

func (r *postgresRepository) query(ctx context.Context, filter model.ListFilter, limit int) ([]*model.Country, error) {
	query, args, err := buildListQuery(filter, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	countries := make([]*model.Country, 0)
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate countries: %w", err)
	}
	return countries, nil
}

// List retrieves countries matching the filter
func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Country, error) {
	return r.query(ctx, filter, 0)
}

// TopByGDP dùng cùng ORDER BY với gdp_desc
func (r *postgresRepository) TopByGDP(ctx context.Context, limit int) ([]*model.Country, error) {
	return r.query(ctx, model.ListFilter{Sort: model.SortGDPDesc}, limit)
}

// GetByName retrieves a country by case-insensitive name
func (r *postgresRepository) GetByName(ctx context.Context, name string) (*model.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries WHERE lower(name) = lower($1)`

	c, err := scanCountry(r.pool.QueryRow(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get country by name: %w", err)
	}
	return c, nil
}

// DeleteByName removes a country record in one statement
func (r *postgresRepository) DeleteByName(ctx context.Context, name string) (*model.Country, error) {
	query := `DELETE FROM countries WHERE lower(name) = lower($1) RETURNING ` + countryColumns

	c, err := scanCountry(r.pool.QueryRow(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete country: %w", err)
	}
	return c, nil
}

// Status returns total count and latest refresh timestamp
func (r *postgresRepository) Status(ctx context.Context) (*model.Status, error) {
	query := `SELECT COUNT(*), MAX(last_refreshed_at) FROM countries`

	var (
		status model.Status
		count  int64
	)
	if err := r.pool.QueryRow(ctx, query).Scan(&count, &status.LastRefreshedAt); err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	status.TotalCountries = int(count)
	if status.LastRefreshedAt != nil {
		t := status.LastRefreshedAt.UTC()
		status.LastRefreshedAt = &t
	}
	return &status, nil
}
