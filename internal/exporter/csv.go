package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"stempulse/pkg/contracts/domain"
)

// CombinedCSVName is the well-known file name of the joined table export.
const CombinedCSVName = "combined_data.csv"

// overviewHeader matches the joined-table columns in display order.
var overviewHeader = []string{"Country", "Investment", "GDPMean", "InterestRate", "InflationRate", "StockIndex"}

// WriteOverviewCSV streams the overview rows as CSV: UTF-8 with BOM so
// spreadsheets pick the right encoding, header row, comma separated.
// Missing values render as empty cells.
func WriteOverviewCSV(w io.Writer, rows []domain.OverviewRow) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(overviewHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		record := []string{
			row.Country,
			formatFloat(row.Investment),
			formatOptional(row.GDPMean),
			formatOptional(row.InterestRate),
			formatOptional(row.InflationRate),
			formatOptional(row.StockIndex),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Writer persists export artifacts under a reports directory.
type Writer struct {
	reportsDir string
	logger     *slog.Logger
}

// NewWriter creates a file-backed exporter rooted at reportsDir.
func NewWriter(reportsDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{reportsDir: reportsDir, logger: logger}
}

// WriteCombinedCSV writes the joined table to the reports directory and
// returns the written path.
func (w *Writer) WriteCombinedCSV(rows []domain.OverviewRow) (string, error) {
	path := filepath.Join(w.reportsDir, CombinedCSVName)
	if err := w.writeFile(path, func(f io.Writer) error {
		return WriteOverviewCSV(f, rows)
	}); err != nil {
		return "", err
	}

	w.logger.Info("wrote combined CSV",
		slog.String("path", path),
		slog.Int("rows", len(rows)))
	return path, nil
}

func (w *Writer) writeFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
