package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/models"
	"apexcrm/internal/services"
)

type CampaignHandler struct {
	Service services.CampaignService
	stats   Invalidator
	log     *zap.Logger
}

func NewCampaignHandler(service services.CampaignService, stats Invalidator, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{Service: service, stats: orNop(stats), log: nopIfNil(log)}
}

// @Summary      Список кампаний
// @Description  Each campaign carries open, click and conversion rates.
// @Tags         Campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        search  query  string  false  "name contains"
// @Param        type    query  string  false  "email|social|event|ads"
// @Param        status  query  string  false  "draft|scheduled|active|completed"
// @Param        page    query  int     false  "page (1-based)"
// @Param        size    query  int     false  "page size"
// @Success      200  {object}  models.ListResult[services.CampaignView]
// @Router       /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	filter := models.CampaignFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Type:   models.CampaignType(filterValue(c, "type")),
		Status: models.CampaignStatus(filterValue(c, "status")),
	}
	res, err := h.Service.List(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err, "campaign not found")
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Кампания по id
// @Tags         Campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Campaign ID"
// @Success      200  {object}  services.CampaignView
// @Failure      404  {object}  map[string]string
// @Router       /campaigns/{id} [get]
func (h *CampaignHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	campaign, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "campaign not found")
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// @Summary      Создать кампанию
// @Tags         Campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        campaign  body      models.Campaign  true  "Campaign"
// @Success      201       {object}  services.CampaignView
// @Failure      400       {object}  map[string]interface{}
// @Router       /campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	var campaign models.Campaign
	if err := c.ShouldBindJSON(&campaign); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	campaign.ID = 0
	created, err := h.Service.Create(c.Request.Context(), &campaign)
	if err != nil {
		respondError(c, h.log, err, "campaign not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

// @Summary      Обновить кампанию
// @Description  Status changes must follow the campaign lifecycle (409 otherwise).
// @Tags         Campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int              true  "Campaign ID"
// @Param        campaign  body      models.Campaign  true  "Campaign"
// @Success      200       {object}  services.CampaignView
// @Failure      409       {object}  map[string]string
// @Router       /campaigns/{id} [put]
func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body models.Campaign
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id
	updated, err := h.Service.Update(c.Request.Context(), &body)
	if err != nil {
		respondError(c, h.log, err, "campaign not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Удалить кампанию
// @Tags         Campaigns
// @Security     BearerAuth
// @Param        id  path  int  true  "Campaign ID"
// @Success      204
// @Router       /campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "campaign not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}
