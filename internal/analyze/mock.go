package analyze

import (
	"context"
	"fmt"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// conditionFactors maps item condition to expected resale fraction of MSRP.
var conditionFactors = map[string]float64{
	"New":         0.75,
	"Like New":    0.65,
	"Open Box":    0.60,
	"Refurbished": 0.55,
	"Used":        0.45,
	"Damaged":     0.25,
}

const defaultConditionFactor = 0.50

// MockAnalyzer implements Analyzer with a deterministic estimate derived
// from MSRP and condition. It stands in when no AI backend is configured
// or the backend is unavailable.
type MockAnalyzer struct{}

// NewMockAnalyzer creates a deterministic analyzer.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// Name returns the analyzer name.
func (*MockAnalyzer) Name() string {
	return "mock"
}

// Analyze produces a deterministic estimate. The same input always yields
// the same output.
func (*MockAnalyzer) Analyze(
	_ context.Context,
	in Input,
) (domain.Analysis, error) {
	factor, ok := conditionFactors[in.Condition]
	if !ok {
		factor = defaultConditionFactor
	}

	estimated := in.MSRP * factor

	demand := "Medium"
	salesTime := "2-4 weeks"
	switch {
	case in.MSRP <= 0:
		demand = "Unknown"
		salesTime = "Unknown"
	case in.MSRP < 50:
		demand = "High"
		salesTime = "1-2 weeks"
	case in.MSRP > 500:
		demand = "Low"
		salesTime = "4-8 weeks"
	}

	return domain.Analysis{
		EstimatedSalePrice: estimated,
		Demand:             demand,
		SalesTime:          salesTime,
		Reasoning: fmt.Sprintf(
			"Deterministic estimate: %.0f%% of MSRP for condition %q.",
			factor*100, in.Condition,
		),
		ProfitMargin: 70.0,
	}, nil
}
