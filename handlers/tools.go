package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datadeck/tools"
)

// CompetitorPricingHandler returns mock competitor pricing
// @Summary      Mock competitor pricing lookup
// @Description  Deterministic mock pricing data; the same lookup is offered to the analysis model as a callable tool
// @Tags         Tools
// @Produce      json
// @Param        product  query     string  true  "Product name"
// @Success      200      {object}  map[string]interface{}  "Pricing data"
// @Failure      400      {object}  map[string]string  "Missing product"
// @Router       /api/tools/competitor-pricing [get]
func (h *Handlers) CompetitorPricingHandler(c *gin.Context) {
	product := c.Query("product")
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product query parameter is required"})
		return
	}
	c.JSON(http.StatusOK, tools.CompetitorPricing(product))
}

// MarketTrendHandler returns mock market trend data
// @Summary      Mock market trend lookup
// @Description  Deterministic mock trend data; the same lookup is offered to the analysis model as a callable tool
// @Tags         Tools
// @Produce      json
// @Param        category  query     string  true  "Product category"
// @Success      200       {object}  map[string]interface{}  "Trend data"
// @Failure      400       {object}  map[string]string  "Missing category"
// @Router       /api/tools/market-trend [get]
func (h *Handlers) MarketTrendHandler(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category query parameter is required"})
		return
	}
	c.JSON(http.StatusOK, tools.MarketTrend(category))
}
