package service

import (
	"stockpulse/pkg/utils"
)

// defaultSectorPE benchmarks a P/E ratio against its sector. Unknown sectors
// fall back to the generic benchmark.
var defaultSectorPE = map[string]float64{
	"Technology":             28,
	"Health Care":            22,
	"Financials":             14,
	"Consumer Discretionary": 25,
	"Consumer Staples":       22,
	"Industrials":            20,
	"Energy":                 12,
	"Utilities":              18,
	"Communication Services": 20,
	"Real Estate":            35,
	"Materials":              15,
}

const genericSectorPE = 20.0

// FundamentalAnalyzer scores valuation against sector P/E benchmarks.
type FundamentalAnalyzer struct {
	sectorPE map[string]float64
}

// NewFundamentalAnalyzer creates an analyzer with the default benchmark
// table.
func NewFundamentalAnalyzer() *FundamentalAnalyzer {
	return &FundamentalAnalyzer{sectorPE: defaultSectorPE}
}

// Score compares a P/E ratio against its sector benchmark, producing a
// [-1, 1] valuation score where cheaper-than-sector is positive. A missing
// P/E ratio scores 0.
func (a *FundamentalAnalyzer) Score(peRatio *float64, sector *string) float64 {
	if peRatio == nil {
		return 0.0
	}

	benchmark := genericSectorPE
	if sector != nil {
		if avg, ok := a.sectorPE[*sector]; ok {
			benchmark = avg
		}
	}

	return utils.Clamp((benchmark-*peRatio)/benchmark, -1, 1)
}
