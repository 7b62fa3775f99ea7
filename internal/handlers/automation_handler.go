package handlers

import (
	"net/http"

	"matchmarket/internal/services"

	"github.com/gin-gonic/gin"
)

type AutomationHandler struct {
	service *services.AutomationService
}

func NewAutomationHandler(service *services.AutomationService) *AutomationHandler {
	return &AutomationHandler{service: service}
}

// RunCycle triggers one automation cycle on demand (admin only)
func (h *AutomationHandler) RunCycle(c *gin.Context) {
	report, err := h.service.RunAutomationCycle(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// SyncStatuses triggers only the status sync pass (admin only)
func (h *AutomationHandler) SyncStatuses(c *gin.Context) {
	results, err := h.service.SyncMatchStatuses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
		"count":   len(results),
	})
}
