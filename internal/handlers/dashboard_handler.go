package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/services"
)

type DashboardHandler struct {
	Service services.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Service: service, log: nopIfNil(log)}
}

// @Summary      Сводка дашборда
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.DashboardStats
// @Router       /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "not found")
		return
	}
	c.JSON(http.StatusOK, stats)
}
