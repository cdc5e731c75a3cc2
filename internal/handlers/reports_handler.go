package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/services"
)

type ReportHandler struct {
	Service services.ReportService
	log     *zap.Logger
}

func NewReportHandler(service services.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Service: service, log: nopIfNil(log)}
}

// @Summary      PDF-отчёт по воронке
// @Tags         Reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  file
// @Failure      500  {object}  map[string]string
// @Router       /reports/pipeline.pdf [get]
func (h *ReportHandler) PipelinePDF(c *gin.Context) {
	// буферизуем, чтобы при ошибке не отдать обрезанный файл
	var buf bytes.Buffer
	if err := h.Service.PipelinePDF(c.Request.Context(), &buf); err != nil {
		respondError(c, h.log, err, "not found")
		return
	}
	name := fmt.Sprintf("pipeline-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
