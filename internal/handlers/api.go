package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jcamil/bienes-raices/internal/services"
)

// APIHandler exposes the read-only JSON surface.
type APIHandler struct {
	propertyService *services.PropertyService
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(propertyService *services.PropertyService) *APIHandler {
	return &APIHandler{
		propertyService: propertyService,
	}
}

// Properties returns every published property with category and price.
func (h *APIHandler) Properties(c *gin.Context) {
	properties, err := h.propertyService.Recent(0)
	if err != nil {
		log.Printf("failed to list properties: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}
