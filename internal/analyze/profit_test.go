package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/analyze"
)

func TestEstimateProfit(t *testing.T) {
	t.Parallel()

	got := analyze.EstimateProfit(100, 10)

	assert.InDelta(t, 30.0, got.PurchasePrice, 0.001)
	assert.InDelta(t, 70.0, got.ProfitPerItem, 0.001)
	assert.InDelta(t, 300.0, got.TotalInvestment, 0.001)
	assert.InDelta(t, 1000.0, got.TotalRevenue, 0.001)
	assert.InDelta(t, 700.0, got.TotalProfit, 0.001)
	assert.InDelta(t, 233.33, got.ROI, 0.005)
	assert.Equal(t, 10, got.Quantity)
}

func TestEstimateProfit_ZeroInvestment(t *testing.T) {
	t.Parallel()

	got := analyze.EstimateProfit(0, 5)

	assert.Zero(t, got.ROI, "ROI must be 0, not NaN, on zero investment")
	assert.Zero(t, got.TotalInvestment)
	assert.Zero(t, got.TotalRevenue)
}

func TestEstimateProfit_FullPrecision(t *testing.T) {
	t.Parallel()

	// Internal values keep full precision. Rounding happens only when
	// presenting.
	got := analyze.EstimateProfit(33.333, 3)

	assert.InDelta(t, 9.9999, got.PurchasePrice, 1e-9)
	assert.InDelta(t, 10.0, analyze.Round2(got.PurchasePrice), 0.001)
}

func TestRound2(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 233.33, analyze.Round2(233.333333), 1e-9)
	assert.InDelta(t, 0.13, analyze.Round2(0.125), 1e-9)
	assert.InDelta(t, -1.23, analyze.Round2(-1.2349), 1e-9)
}
