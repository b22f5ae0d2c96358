package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/rso-backend/internal/dto"
	"github.com/ignatzorin/rso-backend/internal/models"
)

// CatalogHandler отдаёт справочники формы.
type CatalogHandler struct {
	response *dto.CatalogResponse
}

// NewCatalogHandler создаёт обработчик. nil означает каталог по умолчанию.
func NewCatalogHandler(catalog *models.Catalog) *CatalogHandler {
	if catalog == nil {
		catalog = models.DefaultCatalog
	}
	return &CatalogHandler{response: dto.NewCatalogResponse(catalog)}
}

// Get GET /api/catalog
func (h *CatalogHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.response)
}
