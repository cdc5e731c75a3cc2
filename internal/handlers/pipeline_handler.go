package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/pipeline"
	"apexcrm/internal/services"
)

type PipelineHandler struct {
	reports services.ReportService
	log     *zap.Logger
}

func NewPipelineHandler(reports services.ReportService, log *zap.Logger) *PipelineHandler {
	return &PipelineHandler{reports: reports, log: nopIfNil(log)}
}

type boardResponse struct {
	pipeline.Summary
	WeightedDisplay int64 `json:"weighted_display"`
}

// @Summary      Канбан-доска
// @Description  Deals grouped by stage. q narrows the cards; totals cover every deal.
// @Tags         Pipeline
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "title, customer or contact contains"
// @Success      200  {object}  boardResponse
// @Router       /pipeline/board [get]
func (h *PipelineHandler) Board(c *gin.Context) {
	sum, err := h.reports.Board(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		respondError(c, h.log, err, "not found")
		return
	}
	c.JSON(http.StatusOK, boardResponse{Summary: *sum, WeightedDisplay: int64(math.Round(sum.WeightedValue))})
}

// @Summary      Этапы воронки
// @Tags         Pipeline
// @Produce      json
// @Success      200  {array}  pipeline.StageConfig
// @Router       /pipeline/stages [get]
func (h *PipelineHandler) Stages(c *gin.Context) {
	c.JSON(http.StatusOK, pipeline.Stages)
}
