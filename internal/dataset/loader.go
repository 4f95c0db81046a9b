package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"stempulse/pkg/contracts/domain"
)

// Loader reads the raw input tables from disk.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader with the given logger, defaulting to
// slog.Default when nil.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadInvestment reads the long-format investment table. CSV is the normal
// case; an .xlsx path is parsed as a workbook because the upstream GBARD
// release ships as a spreadsheet.
func (l *Loader) LoadInvestment(ctx context.Context, path string) ([]domain.InvestmentRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return l.loadInvestmentWorkbook(ctx, path)
	}
	return l.loadInvestmentCSV(ctx, path)
}

func (l *Loader) loadInvestmentCSV(ctx context.Context, path string) ([]domain.InvestmentRecord, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	countryCol, err := findColumn(header, path, "country")
	if err != nil {
		return nil, err
	}
	yearCol, err := findColumn(header, path, "year")
	if err != nil {
		return nil, err
	}
	valueCol, err := findColumnAny(header, path, "gbard", "investment", "value")
	if err != nil {
		return nil, err
	}

	records := make([]domain.InvestmentRecord, 0, len(rows))
	for i, row := range rows {
		country := strings.TrimSpace(row[countryCol])
		if country == "" {
			continue
		}

		year, err := parseIntCell(path, i+2, header[yearCol], row[yearCol])
		if err != nil {
			return nil, err
		}
		value, present, err := parseFloatCell(path, i+2, header[valueCol], row[valueCol])
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

	l.logger.InfoContext(ctx, "loaded investment table",
		slog.String("path", path),
		slog.Int("rows", len(records)))

	return records, nil
}

// LoadGDP reads the wide-format GDP table. Every header cell that parses as
// an integer is treated as a year column; empty cells are missing values
// and simply absent from YearValues.
func (l *Loader) LoadGDP(ctx context.Context, path string) ([]domain.GDPRecord, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	countryCol, err := findColumn(header, path, "country")
	if err != nil {
		return nil, err
	}

	yearCols := make(map[int]int) // column index -> year
	for i, h := range header {
		if y, err := strconv.Atoi(strings.TrimSpace(h)); err == nil {
			yearCols[i] = y
		}
	}
	if len(yearCols) == 0 {
		return nil, fmt.Errorf("%s: no year columns found in header %v", path, header)
	}

	records := make([]domain.GDPRecord, 0, len(rows))
	for i, row := range rows {
		country := strings.TrimSpace(row[countryCol])
		if country == "" {
			continue
		}

		values := make(map[int]float64, len(yearCols))
		for col, year := range yearCols {
			v, present, err := parseFloatCell(path, i+2, header[col], row[col])
			if err != nil {
				return nil, err
			}
			if present {
				values[year] = v
			}
		}

		records = append(records, domain.GDPRecord{Country: country, YearValues: values})
	}

	l.logger.InfoContext(ctx, "loaded GDP table",
		slog.String("path", path),
		slog.Int("rows", len(records)),
		slog.Int("year_columns", len(yearCols)))

	return records, nil
}

// LoadIndicators reads the economic-indicators table. Missing numeric cells
// become NaN so downstream joins can drop them per indicator.
func (l *Loader) LoadIndicators(ctx context.Context, path string) ([]domain.IndicatorRecord, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	countryCol, err := findColumn(header, path, "country")
	if err != nil {
		return nil, err
	}
	interestCol, err := findColumnAny(header, path, "interest")
	if err != nil {
		return nil, err
	}
	inflationCol, err := findColumnAny(header, path, "inflation")
	if err != nil {
		return nil, err
	}
	stockCol, err := findColumnAny(header, path, "stock")
	if err != nil {
		return nil, err
	}

	records := make([]domain.IndicatorRecord, 0, len(rows))
	for i, row := range rows {
		country := strings.TrimSpace(row[countryCol])
		if country == "" {
			continue
		}

		rec := domain.IndicatorRecord{Country: country}
		for _, c := range []struct {
			col  int
			dest *float64
		}{
			{interestCol, &rec.InterestRate},
			{inflationCol, &rec.InflationRate},
			{stockCol, &rec.StockIndex},
		} {
			v, present, err := parseFloatCell(path, i+2, header[c.col], row[c.col])
			if err != nil {
				return nil, err
			}
			if !present {
				v = math.NaN()
			}
			*c.dest = v
		}
		records = append(records, rec)
	}

	l.logger.InfoContext(ctx, "loaded indicators table",
		slog.String("path", path),
		slog.Int("rows", len(records)))

	return records, nil
}

// readCSV reads a whole CSV file, returning data rows and the header row.
// Rows shorter than the header are padded with empty cells so column
// lookups stay in bounds.
func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: file is empty", path)
	}

	header := all[0]
	// Strip a UTF-8 BOM if the file came back from a spreadsheet round trip.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	rows := all[1:]
	for i, row := range rows {
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows[i] = row
	}

	return rows, header, nil
}

// findColumn locates the header whose lowercased name equals name, or
// failing that, contains it. The exact pass runs first so a header like
// "Country Code,Country" resolves "country" to the plain column.
func findColumn(header []string, path, name string) (int, error) {
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == name {
			return i, nil
		}
	}
	for i, h := range header {
		if strings.Contains(strings.ToLower(strings.TrimSpace(h)), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s: required column %q not found in header %v", path, name, header)
}

// findColumnAny locates the first header matching any of the candidate
// names.
func findColumnAny(header []string, path string, names ...string) (int, error) {
	for _, name := range names {
		if i, err := findColumn(header, path, name); err == nil {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s: none of columns %v found in header %v", path, names, header)
}

// parseFloatCell parses a numeric cell. An empty cell is missing, not an
// error; thousands separators are tolerated.
func parseFloatCell(path string, row int, column, raw string) (float64, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false, &CellError{File: path, Row: row, Column: column, Value: raw, Err: err}
	}
	return v, true, nil
}

func parseIntCell(path string, row int, column, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &CellError{File: path, Row: row, Column: column, Value: raw, Err: err}
	}
	return v, nil
}
