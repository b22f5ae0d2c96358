package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/rso-backend/internal/http/handlers/common"
	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/service"
)

// RelatorioHandler обслуживает /api/rso.
type RelatorioHandler struct {
	service *service.RelatorioService
}

// NewRelatorioHandler создаёт обработчик отчётов.
func NewRelatorioHandler(s *service.RelatorioService) *RelatorioHandler {
	return &RelatorioHandler{service: s}
}

// Create обрабатывает POST /api/rso.
func (h *RelatorioHandler) Create(c *gin.Context) {
	var in models.RelatorioInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondBadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}

	rel, err := h.service.Create(c.Request.Context(), &in)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, rel)
}

// List обрабатывает GET /api/rso.
func (h *RelatorioHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, items)
}

// Get обрабатывает GET /api/rso/:id.
func (h *RelatorioHandler) Get(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rel, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, rel)
}

// Update обрабатывает PATCH /api/rso/:id. Отсутствующие поля не меняются.
func (h *RelatorioHandler) Update(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var patch models.RelatorioPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		common.RespondBadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}

	if err := h.service.Update(c.Request.Context(), id, &patch); err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondAck(c)
}

// Delete обрабатывает DELETE /api/rso/:id.
func (h *RelatorioHandler) Delete(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondAck(c)
}
