package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"country-currency-api/internal/domains/country/model"
)

const exportSheet = "Countries"

var exportHeaders = []string{
	"ID",
	"Name",
	"Capital",
	"Region",
	"Population",
	"Currency Code",
	"Exchange Rate",
	"Estimated GDP",
	"Flag URL",
	"Last Refreshed At",
}

// ExportCountries trả về workbook có một sheet, thứ tự dòng giống ListCountries
func (s *countryService) ExportCountries(ctx context.Context, filter model.ListFilter) (*excelize.File, error) {
	countries, err := s.ListCountries(ctx, filter)
	if err != nil {
		return nil, err
	}

	f, err := buildCountriesExcelFile(countries)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildCountriesExcelFile(countries []*model.Country) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	// Row 1: Header
	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", lastCol, headerStyle)
	}

	// Data rows, bắt đầu từ row 2
	for i, c := range countries {
		values := []interface{}{
			c.ID,
			c.Name,
			derefOrNil(c.Capital),
			derefOrNil(c.Region),
			c.Population,
			derefOrNil(c.CurrencyCode),
			nil,
			nil,
			derefOrNil(c.FlagURL),
			c.LastRefreshedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if c.ExchangeRate.Valid {
			values[6] = c.ExchangeRate.Decimal.InexactFloat64()
		}
		if c.HasGDP() {
			values[7] = c.EstimatedGDP.InexactFloat64()
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func derefOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
