package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/analyze"
)

// CheckRequest is the request body for a single-item profitability check.
// MSRP accepts either a JSON number or a formatted string ("$1,299.99").
type CheckRequest struct {
	ItemNumber string `json:"item_number"`
	Title      string `json:"title"`
	MSRP       any    `json:"msrp"`
	Quantity   int    `json:"quantity"`
	Condition  string `json:"condition"`
	Notes      string `json:"notes"`
}

// CheckItem echoes back the parsed item fields in a check response.
type CheckItem struct {
	ItemNumber string  `json:"itemNumber"`
	Title      string  `json:"title"`
	MSRP       float64 `json:"msrp"`
	Quantity   int     `json:"quantity"`
	Notes      string  `json:"notes,omitempty"`
}

// CheckAnalysis is the per-unit analysis section of a check response.
type CheckAnalysis struct {
	EstimatedSalePrice float64 `json:"estimatedSalePrice"`
	PurchasePrice      float64 `json:"purchasePrice"`
	ProfitPerItem      float64 `json:"profitPerItem"`
	Demand             string  `json:"demand"`
	SalesTime          string  `json:"salesTime"`
	Reasoning          string  `json:"reasoning"`
	ProfitMargin       float64 `json:"profitMargin"`
}

// CheckSummary is the lot-level projection section of a check response.
type CheckSummary struct {
	TotalInvestment float64 `json:"totalInvestment"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalProfit     float64 `json:"totalProfit"`
	ROI             float64 `json:"roi"`
	Quantity        int     `json:"quantity"`
}

// CheckResponse is the full response body for a profitability check.
type CheckResponse struct {
	Item     CheckItem     `json:"item"`
	Analysis CheckAnalysis `json:"analysis"`
	Summary  CheckSummary  `json:"summary"`
}

// CheckHandler answers ad-hoc profitability checks for a single item
// without persisting anything.
type CheckHandler struct {
	analyzer analyze.Analyzer
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(analyzer analyze.Analyzer) *CheckHandler {
	return &CheckHandler{analyzer: analyzer}
}

// Check estimates resale value and profit for a single item.
//
// @Summary Check item profitability
// @Description Runs resale analysis on a single item and returns per-unit and lot projections.
// @Tags check
// @Accept json
// @Produce json
// @Success 200 {object} CheckResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/check [post]
func (h *CheckHandler) Check(c echo.Context) error {
	var req CheckRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title is required"})
	}

	msrp, err := parseMSRP(req.MSRP)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if msrp <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "msrp must be greater than zero"})
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	itemNumber := strings.TrimSpace(req.ItemNumber)
	if itemNumber == "" {
		itemNumber = "N/A"
	}

	analysis, err := h.analyzer.Analyze(c.Request().Context(), analyze.Input{
		Title:     title,
		Condition: strings.TrimSpace(req.Condition),
		MSRP:      msrp,
		Quantity:  quantity,
		Notes:     req.Notes,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "analysis failed"})
	}

	purchase := analysis.EstimatedSalePrice * analyze.AcquisitionCostRatio
	summary := analyze.EstimateProfit(analysis.EstimatedSalePrice, quantity)

	return c.JSON(http.StatusOK, CheckResponse{
		Item: CheckItem{
			ItemNumber: itemNumber,
			Title:      title,
			MSRP:       msrp,
			Quantity:   quantity,
			Notes:      req.Notes,
		},
		Analysis: CheckAnalysis{
			EstimatedSalePrice: analyze.Round2(analysis.EstimatedSalePrice),
			PurchasePrice:      analyze.Round2(purchase),
			ProfitPerItem:      analyze.Round2(analysis.EstimatedSalePrice - purchase),
			Demand:             analysis.Demand,
			SalesTime:          analysis.SalesTime,
			Reasoning:          analysis.Reasoning,
			ProfitMargin:       analysis.ProfitMargin,
		},
		Summary: CheckSummary{
			TotalInvestment: analyze.Round2(summary.TotalInvestment),
			TotalRevenue:    analyze.Round2(summary.TotalRevenue),
			TotalProfit:     analyze.Round2(summary.TotalProfit),
			ROI:             analyze.Round2(summary.ROI),
			Quantity:        quantity,
		},
	})
}

// parseMSRP accepts a JSON number or a price string with currency
// formatting ("$1,299.99") and returns the numeric value.
func parseMSRP(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("msrp is required")
	case float64:
		return v, nil
	case string:
		cleaned := strings.ReplaceAll(strings.ReplaceAll(v, "$", ""), ",", "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			return 0, fmt.Errorf("msrp is required")
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid msrp: %q", v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("invalid msrp type")
	}
}
