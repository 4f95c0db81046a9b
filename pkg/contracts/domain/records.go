// Package domain holds the shared data contracts of the pipeline: the
// parsed input records, the joined overview rows, and the statistical
// results.
package domain

// InvestmentRecord is one row of the long-format GBARD investment table:
// one country, one year, one budget allocation value.
type InvestmentRecord struct {
	Country    string  `json:"country" csv:"Country"`
	Year       int     `json:"year" csv:"Year"`
	Investment float64 `json:"investment" csv:"GBARD"`
}

// GDPRecord is one row of the wide-format GDP table. YearValues holds only
// the cells that were present in the source file; an absent year means the
// cell was empty, not zero.
type GDPRecord struct {
	Country    string          `json:"country"`
	YearValues map[int]float64 `json:"year_values"`
}

// IndicatorRecord is one row of the economic-indicators table. Missing
// numeric cells are represented as NaN.
type IndicatorRecord struct {
	Country       string  `json:"country"`
	InterestRate  float64 `json:"interest_rate"`
	InflationRate float64 `json:"inflation_rate"`
	StockIndex    float64 `json:"stock_index"`
}

// CountryAggregate is one row of the harmonized investment table: exactly
// one row per canonical country key, holding the arithmetic mean of all raw
// investment rows that normalized to that key.
type CountryAggregate struct {
	Key        string  `json:"key"`
	Investment float64 `json:"investment"`
	SourceRows int     `json:"source_rows"`
}

// OverviewRow is one row of the left-joined overview table. Pointer fields
// are nil when the country had no matching value in that source.
type OverviewRow struct {
	Country       string   `json:"country" csv:"Country"`
	Investment    float64  `json:"investment" csv:"Investment"`
	GDPMean       *float64 `json:"gdp_mean" csv:"GDPMean"`
	InterestRate  *float64 `json:"interest_rate" csv:"InterestRate"`
	InflationRate *float64 `json:"inflation_rate" csv:"InflationRate"`
	StockIndex    *float64 `json:"stock_index" csv:"StockIndex"`
}

// ObservationPair is one complete (investment, indicator) pair produced by
// the inner-join policy. The statistical step only ever sees complete pairs.
type ObservationPair struct {
	Country string  `json:"country"`
	X       float64 `json:"x"` // investment
	Y       float64 `json:"y"` // dependent variable
}
