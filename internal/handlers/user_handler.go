package handlers

import (
	"net/http"
	"strconv"

	"matchmarket/internal/repository"
	"matchmarket/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	marketService *services.MarketService
	repo          *repository.Repository
}

func NewUserHandler(marketService *services.MarketService, repo *repository.Repository) *UserHandler {
	return &UserHandler{marketService: marketService, repo: repo}
}

// GetPortfolio returns the authenticated user's predictions across markets
func (h *UserHandler) GetPortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	portfolio, err := h.marketService.GetUserPortfolio(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    portfolio,
	})
}

// GetTransactions returns the authenticated user's ledger entries
func (h *UserHandler) GetTransactions(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	transactions, err := h.repo.ListTransactionsByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transactions,
		"count":   len(transactions),
	})
}

// GetCreatedMarkets returns markets created by the authenticated user
func (h *UserHandler) GetCreatedMarkets(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	markets, err := h.repo.ListMarketsByCreator(c.Request.Context(), userID)
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
