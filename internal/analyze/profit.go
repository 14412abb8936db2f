package analyze

import (
	"math"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// AcquisitionCostRatio is the assumed purchase cost as a fraction of the
// estimated resale price.
const AcquisitionCostRatio = 0.30

// EstimateProfit derives the buy/resell economics for an item at the given
// estimated per-unit sale price and quantity. ROI is 0 when the total
// investment is 0. No rounding is applied; use Round2 at the presentation
// boundary.
func EstimateProfit(estimatedSalePrice float64, quantity int) domain.ProfitSummary {
	purchasePrice := estimatedSalePrice * AcquisitionCostRatio
	profitPerItem := estimatedSalePrice - purchasePrice

	qty := float64(quantity)
	totalInvestment := purchasePrice * qty
	totalRevenue := estimatedSalePrice * qty
	totalProfit := profitPerItem * qty

	var roi float64
	if totalInvestment > 0 {
		roi = totalProfit / totalInvestment * 100
	}

	return domain.ProfitSummary{
		PurchasePrice:   purchasePrice,
		ProfitPerItem:   profitPerItem,
		TotalInvestment: totalInvestment,
		TotalRevenue:    totalRevenue,
		TotalProfit:     totalProfit,
		ROI:             roi,
		Quantity:        quantity,
	}
}

// Round2 rounds a monetary value to 2 decimal places for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
