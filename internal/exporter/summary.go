package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"stempulse/pkg/contracts/domain"
)

// SummaryName is the well-known file name of the executive summary export.
const SummaryName = "executive_summary.txt"

// SummaryOptions controls the narrative wording. The hypothesis labels
// come from configuration so research teams can phrase H0/H1 their own
// way without a rebuild.
type SummaryOptions struct {
	Title           string
	NullHypothesis  string
	AltHypothesis   string
	SignificantText string
	NoEffectText    string
}

// DefaultSummaryOptions returns the wording used when nothing is
// configured.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		Title:           "STEM Investment and Macroeconomic Indicators",
		NullHypothesis:  "STEM investment is unrelated to the indicator",
		AltHypothesis:   "STEM investment is related to the indicator",
		SignificantText: "the null hypothesis is rejected",
		NoEffectText:    "the null hypothesis is not rejected",
	}
}

// WriteSummary renders the plain-text executive summary for one analysis
// run.
func WriteSummary(w io.Writer, rows []domain.OverviewRow, report *domain.AnalysisReport, opts SummaryOptions) error {
	if opts.Title == "" {
		opts = DefaultSummaryOptions()
	}

	var b strings.Builder
	b.WriteString(opts.Title + "\n")
	b.WriteString(strings.Repeat("=", len(opts.Title)) + "\n\n")

	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Countries in overview: %d\n", len(rows))
	fmt.Fprintf(&b, "Significance level: %.3g\n\n", report.Alpha)

	fmt.Fprintf(&b, "H0: %s\n", opts.NullHypothesis)
	fmt.Fprintf(&b, "H1: %s\n\n", opts.AltHypothesis)

	for _, analysis := range report.Indicators {
		fmt.Fprintf(&b, "%s\n", analysis.Indicator.Label())
		b.WriteString(strings.Repeat("-", len(analysis.Indicator.Label())) + "\n")

		if analysis.InsufficientData {
			fmt.Fprintf(&b, "Not enough data: %s\n\n", analysis.Message)
			continue
		}

		r := analysis.Regression
		direction := "negative"
		if r.Positive {
			direction = "positive"
		}
		fmt.Fprintf(&b, "OLS on investment across %d countries: %s slope %.4g", r.N, direction, r.Slope)
		switch {
		case math.IsNaN(r.PValue):
			b.WriteString(" (no significance test possible with 2 points)\n")
		case r.Significant:
			fmt.Fprintf(&b, " (p=%.4g, %s)\n", r.PValue, opts.SignificantText)
		default:
			fmt.Fprintf(&b, " (p=%.4g, %s)\n", r.PValue, opts.NoEffectText)
		}

		if tt := analysis.TTest; tt != nil {
			fmt.Fprintf(&b, "High vs low investment groups: mean %.4g vs %.4g (t=%.3g, p=%.4g)\n",
				tt.HighMean, tt.LowMean, tt.T, tt.PValue)
		} else if analysis.Message != "" {
			fmt.Fprintf(&b, "Group comparison unavailable: %s\n", analysis.Message)
		}
		b.WriteString("\n")
	}

	if m := report.MANOVA; m != nil {
		b.WriteString("Joint test across all indicators\n")
		b.WriteString("--------------------------------\n")
		verdict := opts.NoEffectText
		if m.Significant {
			verdict = opts.SignificantText
		}
		fmt.Fprintf(&b, "Hotelling T2=%.4g, F(%.0f, %.0f)=%.4g, p=%.4g: %s\n",
			m.TSquared, m.DF1, m.DF2, m.F, m.PValue, verdict)
	} else if report.MANOVAMessage != "" {
		fmt.Fprintf(&b, "Joint test unavailable: %s\n", report.MANOVAMessage)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteExecutiveSummary writes the summary to the reports directory and
// returns the written path.
func (w *Writer) WriteExecutiveSummary(rows []domain.OverviewRow, report *domain.AnalysisReport, opts SummaryOptions) (string, error) {
	path := filepath.Join(w.reportsDir, SummaryName)
	if err := w.writeFile(path, func(f io.Writer) error {
		return WriteSummary(f, rows, report, opts)
	}); err != nil {
		return "", err
	}

	w.logger.Info("wrote executive summary", slog.String("path", path))
	return path, nil
}
