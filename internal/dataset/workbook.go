package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"stempulse/pkg/contracts/domain"
)

// loadInvestmentWorkbook extracts the investment table from an .xlsx
// workbook. Statistical releases bury the data under title rows and vary
// the sheet name, so both the sheet and the header row are discovered by
// content rather than position.
func (l *Loader) loadInvestmentWorkbook(ctx context.Context, path string) ([]domain.InvestmentRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, sheet, err := findInvestmentSheet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	headerRow, cols := findInvestmentHeader(rows)
	if headerRow < 0 {
		return nil, fmt.Errorf("%s: sheet %q has no header row with country/year/value columns", path, sheet)
	}

	records := make([]domain.InvestmentRecord, 0, len(rows)-headerRow)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if cols.value >= len(row) || cols.country >= len(row) || cols.year >= len(row) {
			continue
		}

		country := strings.TrimSpace(row[cols.country])
		if country == "" || strings.Contains(strings.ToLower(country), "total") {
			continue
		}

		year, err := parseIntCell(path, i+1, "year", row[cols.year])
		if err != nil {
			return nil, err
		}
		value, present, err := parseFloatCell(path, i+1, "value", row[cols.value])
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}

		records = append(records, domain.InvestmentRecord{
			Country:    country,
			Year:       year,
			Investment: value,
		})
	}

	l.logger.InfoContext(ctx, "loaded investment workbook",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(records)))

	return records, nil
}

type investmentColumns struct {
	country, year, value int
}

// findInvestmentSheet returns the rows of the first sheet that looks like
// it carries the investment table.
func findInvestmentSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		limit := len(rows)
		if limit > 10 {
			limit = 10
		}
		for _, row := range rows[:limit] {
			text := strings.ToLower(strings.Join(row, " "))
			if strings.Contains(text, "country") && strings.Contains(text, "year") {
				return rows, name, nil
			}
		}
	}
	return nil, "", fmt.Errorf("no sheet with an investment table found")
}

// findInvestmentHeader locates the header row and maps column positions.
func findInvestmentHeader(rows [][]string) (int, investmentColumns) {
	for i, row := range rows {
		cols := investmentColumns{country: -1, year: -1, value: -1}
		for j, cell := range row {
			lower := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case lower == "country":
				cols.country = j
			case strings.Contains(lower, "country") && cols.country < 0:
				cols.country = j
			case lower == "year":
				cols.year = j
			case strings.Contains(lower, "gbard") || strings.Contains(lower, "investment") || strings.Contains(lower, "value"):
				cols.value = j
			}
		}
		if cols.country >= 0 && cols.year >= 0 && cols.value >= 0 {
			return i, cols
		}
	}
	return -1, investmentColumns{}
}
