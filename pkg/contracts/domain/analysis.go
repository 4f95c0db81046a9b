package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Indicator identifies a dependent variable the investment measure is
// regressed against.
type Indicator string

const (
	IndicatorGDP       Indicator = "gdp"
	IndicatorInterest  Indicator = "interest"
	IndicatorInflation Indicator = "inflation"
	IndicatorStock     Indicator = "stock"
)

// AllIndicators lists the indicators in display order.
func AllIndicators() []Indicator {
	return []Indicator{IndicatorGDP, IndicatorInterest, IndicatorInflation, IndicatorStock}
}

// Valid reports whether s names a known indicator.
func (i Indicator) Valid() bool {
	switch i {
	case IndicatorGDP, IndicatorInterest, IndicatorInflation, IndicatorStock:
		return true
	}
	return false
}

// Label returns the human-readable name used in summaries and charts.
func (i Indicator) Label() string {
	switch i {
	case IndicatorGDP:
		return "GDP (multi-year mean)"
	case IndicatorInterest:
		return "Interest rate"
	case IndicatorInflation:
		return "Inflation rate"
	case IndicatorStock:
		return "Stock index"
	}
	return string(i)
}

// RegressionResult holds the OLS fit of one indicator on investment.
type RegressionResult struct {
	Indicator   Indicator `json:"indicator"`
	N           int       `json:"n"`
	Slope       float64   `json:"slope"`
	Intercept   float64   `json:"intercept"`
	RSquared    float64   `json:"r_squared"`
	PValue      float64   `json:"p_value"`
	Positive    bool      `json:"positive"`
	Significant bool      `json:"significant"`
}

// MarshalJSON renders an undefined p-value (a two-point fit) as null
// instead of failing on NaN.
func (r RegressionResult) MarshalJSON() ([]byte, error) {
	type alias RegressionResult
	out := struct {
		alias
		PValue *float64 `json:"p_value"`
	}{alias: alias(r)}
	if !math.IsNaN(r.PValue) {
		out.PValue = &r.PValue
	}
	return json.Marshal(out)
}

// TTestResult holds a Welch two-sample comparison of an indicator between
// the high-investment and low-investment country groups.
type TTestResult struct {
	Indicator   Indicator `json:"indicator"`
	HighN       int       `json:"high_n"`
	LowN        int       `json:"low_n"`
	HighMean    float64   `json:"high_mean"`
	LowMean     float64   `json:"low_mean"`
	T           float64   `json:"t"`
	DF          float64   `json:"df"`
	PValue      float64   `json:"p_value"`
	Significant bool      `json:"significant"`
}

// MANOVAResult holds the joint two-group test across all indicators.
type MANOVAResult struct {
	Indicators  []Indicator `json:"indicators"`
	N           int         `json:"n"`
	TSquared    float64     `json:"t_squared"`
	F           float64     `json:"f"`
	DF1         float64     `json:"df1"`
	DF2         float64     `json:"df2"`
	PValue      float64     `json:"p_value"`
	Significant bool        `json:"significant"`
}

// IndicatorAnalysis bundles the per-indicator statistics. When too few
// complete pairs remain after joining, InsufficientData is set and the
// result fields are nil; a numeric trend line is never fabricated.
type IndicatorAnalysis struct {
	Indicator        Indicator         `json:"indicator"`
	Pairs            int               `json:"pairs"`
	Regression       *RegressionResult `json:"regression,omitempty"`
	TTest            *TTestResult      `json:"t_test,omitempty"`
	InsufficientData bool              `json:"insufficient_data"`
	Message          string            `json:"message,omitempty"`
}

// AnalysisReport is the full statistical output of one pipeline run,
// optionally restricted to a country filter.
type AnalysisReport struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	Countries     int                 `json:"countries"`
	Alpha         float64             `json:"alpha"`
	Indicators    []IndicatorAnalysis `json:"indicators"`
	MANOVA        *MANOVAResult       `json:"manova,omitempty"`
	MANOVAMessage string              `json:"manova_message,omitempty"`
}

// AnalysisRequest carries the user-facing parameters of an analysis call.
// Countries is a post-hoc filter over already-joined rows; empty means no
// filter.
type AnalysisRequest struct {
	Countries []string `json:"countries" validate:"omitempty,dive,min=1,max=64"`
	Indicator string   `json:"indicator" validate:"omitempty,oneof=gdp interest inflation stock"`
}
