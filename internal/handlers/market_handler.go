package handlers

import (
	"net/http"
	"strconv"

	"matchmarket/internal/auth"
	"matchmarket/internal/models"
	"matchmarket/internal/services"

	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	service *services.MarketService
}

func NewMarketHandler(service *services.MarketService) *MarketHandler {
	return &MarketHandler{service: service}
}

// GetMarkets returns markets with optional status filtering
func (h *MarketHandler) GetMarkets(c *gin.Context) {
	status := models.MarketStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	markets, err := h.service.ListMarkets(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch markets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    markets,
		"count":   len(markets),
	})
}

// GetMarketByID returns a specific market
func (h *MarketHandler) GetMarketByID(c *gin.Context) {
	marketID, ok := marketIDFromParam(c)
	if !ok {
		return
	}

	market, err := h.service.GetMarket(c.Request.Context(), marketID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    market,
	})
}

// GetMarketStats returns participation stats for a market
func (h *MarketHandler) GetMarketStats(c *gin.Context) {
	marketID, ok := marketIDFromParam(c)
	if !ok {
		return
	}

	stats, err := h.service.GetMarketStats(c.Request.Context(), marketID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// CreateMarket creates a new market owned by the authenticated user
func (h *MarketHandler) CreateMarket(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	market, err := h.service.CreateMarket(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    market,
	})
}

// JoinMarket places a prediction on a market for the authenticated user
func (h *MarketHandler) JoinMarket(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	marketID, ok := marketIDFromParam(c)
	if !ok {
		return
	}

	var req models.JoinMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := models.ParseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.service.JoinMarket(c.Request.Context(), marketID, userID, req.Prediction, amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    participant,
	})
}

// ResolveMarket resolves a market with a specific outcome (admin only)
func (h *MarketHandler) ResolveMarket(c *gin.Context) {
	marketID, ok := marketIDFromParam(c)
	if !ok {
		return
	}

	var req struct {
		Outcome models.Outcome `json:"outcome" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.ResolveMarket(c.Request.Context(), marketID, req.Outcome)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Market resolved",
		"data":    summary,
	})
}

// marketIDFromParam parses the :id path parameter
func marketIDFromParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid market id"})
		return 0, false
	}
	return uint(id), true
}

// userIDFromContext pulls the authenticated user from the gin context
func userIDFromContext(c *gin.Context) (uint, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsStateViolation(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
