// Command analyze runs the data pipeline once: load the three input
// tables, join them, run the statistics, and write the combined CSV and
// the executive summary to the reports directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"stempulse/internal/config"
	"stempulse/internal/dataset"
	"stempulse/internal/exporter"
	"stempulse/internal/infrastructure"
	"stempulse/internal/normalize"
	"stempulse/internal/pipeline"
	"stempulse/internal/services"
	"stempulse/pkg/contracts/domain"
)

func main() {
	investment := flag.String("investment", "", "investment CSV or workbook (defaults to configured path)")
	gdp := flag.String("gdp", "", "GDP CSV (defaults to configured path)")
	indicators := flag.String("indicators", "", "indicators CSV (defaults to configured path)")
	reportsDir := flag.String("out", "", "reports directory (defaults to configured path)")
	countriesFlag := flag.String("countries", "", "comma-separated country filter, empty means all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *investment != "" {
		cfg.Data.InvestmentFile = *investment
	}
	if *gdp != "" {
		cfg.Data.GDPFile = *gdp
	}
	if *indicators != "" {
		cfg.Data.IndicatorsFile = *indicators
	}
	if *reportsDir != "" {
		cfg.Data.ReportsDir = *reportsDir
	}
	if err := cfg.EnsureReportsDir(); err != nil {
		logger.Error("failed to create reports directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var countries []string
	for _, c := range strings.Split(*countriesFlag, ",") {
		if c = strings.TrimSpace(c); c != "" {
			countries = append(countries, c)
		}
	}

	paths := pipeline.InputPaths{
		Investment: cfg.Data.InvestmentFile,
		GDP:        cfg.Data.GDPFile,
		Indicators: cfg.Data.IndicatorsFile,
	}
	p := pipeline.New(dataset.NewLoader(logger), normalize.New(nil), logger)
	cache := pipeline.NewCache(p, paths, logger)
	writer := exporter.NewWriter(cfg.Data.ReportsDir, logger)
	story := services.NewStoryService(cache, writer, cfg.Analysis, logger)

	ctx := context.Background()

	report, err := story.Analysis(ctx, domain.AnalysisRequest{Countries: countries})
	if err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	csvPath, summaryPath, err := story.ExportReports(ctx, countries)
	if err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Countries analyzed: %d (alpha %.2f)\n", report.Countries, report.Alpha)
	for _, analysis := range report.Indicators {
		if analysis.InsufficientData {
			fmt.Printf("  %-24s insufficient data: %s\n", analysis.Indicator.Label(), analysis.Message)
			continue
		}
		reg := analysis.Regression
		verdict := "not significant"
		if reg.Significant {
			verdict = "significant"
		}
		fmt.Printf("  %-24s slope %+.4f  R2 %.3f  p %.4f  (%s)\n",
			analysis.Indicator.Label(), reg.Slope, reg.RSquared, reg.PValue, verdict)
	}
	if report.MANOVA != nil {
		fmt.Printf("  joint test: T2 %.3f  F %.3f  p %.4f\n",
			report.MANOVA.TSquared, report.MANOVA.F, report.MANOVA.PValue)
	} else if report.MANOVAMessage != "" {
		fmt.Printf("  joint test unavailable: %s\n", report.MANOVAMessage)
	}
	fmt.Printf("Wrote %s\n", csvPath)
	fmt.Printf("Wrote %s\n", summaryPath)
}
