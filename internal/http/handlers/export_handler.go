package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rso-backend/internal/export"
	"github.com/ignatzorin/rso-backend/internal/http/handlers/common"
	"github.com/ignatzorin/rso-backend/internal/logger"
	"github.com/ignatzorin/rso-backend/internal/service"
)

// ExportHandler отдаёт отфильтрованный список отчётов файлом.
type ExportHandler struct {
	service  *service.RelatorioService
	location *time.Location
	now      func() time.Time
}

// NewExportHandler создаёт обработчик экспорта. Даты в файлах выводятся в loc.
func NewExportHandler(s *service.RelatorioService, loc *time.Location) *ExportHandler {
	return &ExportHandler{service: s, location: loc, now: time.Now}
}

// Export обрабатывает GET /api/admin/rso/export/:format?search=.
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	items, err := h.service.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		common.Fail(c, err)
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, items, export.Options{Location: h.location, Now: now}); err != nil {
		if errors.Is(err, export.ErrEmpty) {
			common.RespondError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Log.WithFields(logrus.Fields{
			"format": format,
			"error":  err.Error(),
		}).Error("export handler: falha ao gerar arquivo")
		common.RespondError(c, http.StatusInternalServerError, "falha ao gerar arquivo")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(format, now)+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
