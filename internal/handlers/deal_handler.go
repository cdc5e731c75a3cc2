package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/models"
	"apexcrm/internal/services"
)

// Invalidator drops cached aggregates after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context) {}

func orNop(inv Invalidator) Invalidator {
	if inv == nil {
		return nopInvalidator{}
	}
	return inv
}

type DealHandler struct {
	Service services.DealService
	stats   Invalidator
	log     *zap.Logger
}

func NewDealHandler(service services.DealService, stats Invalidator, log *zap.Logger) *DealHandler {
	return &DealHandler{Service: service, stats: orNop(stats), log: nopIfNil(log)}
}

// @Summary      Список сделок
// @Tags         Deals
// @Produce      json
// @Security     BearerAuth
// @Param        search  query  string  false  "title, customer or contact contains"
// @Param        stage   query  string  false  "lead|qualified|proposal|negotiation|closed"
// @Param        type    query  string  false  "company|individual"
// @Param        page    query  int     false  "page (1-based)"
// @Param        size    query  int     false  "page size"
// @Success      200  {object}  models.ListResult[models.Deal]
// @Router       /deals [get]
func (h *DealHandler) List(c *gin.Context) {
	filter := models.DealFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Stage:  models.Stage(filterValue(c, "stage")),
		Type:   models.DealType(filterValue(c, "type")),
	}
	res, err := h.Service.List(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err, "deal not found")
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Сделка по id
// @Tags         Deals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Deal ID"
// @Success      200  {object}  models.Deal
// @Failure      404  {object}  map[string]string
// @Router       /deals/{id} [get]
func (h *DealHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deal, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "deal not found")
		return
	}
	c.JSON(http.StatusOK, deal)
}

// @Summary      Создать сделку
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        deal  body      models.Deal  true  "Deal"
// @Success      201   {object}  models.Deal
// @Failure      400   {object}  map[string]interface{}
// @Router       /deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deal.ID = 0
	created, err := h.Service.Create(c.Request.Context(), &deal)
	if err != nil {
		respondError(c, h.log, err, "deal not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

// @Summary      Обновить сделку
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Deal ID"
// @Param        deal  body      models.Deal  true  "Deal"
// @Success      200   {object}  models.Deal
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Router       /deals/{id} [put]
func (h *DealHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body models.Deal
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id
	updated, err := h.Service.Update(c.Request.Context(), &body)
	if err != nil {
		respondError(c, h.log, err, "deal not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, updated)
}

type moveRequest struct {
	Stage models.Stage `json:"stage" binding:"required"`
}

// @Summary      Перенести сделку на этап
// @Description  Sets the stage and the stage's default probability.
// @Tags         Pipeline
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Deal ID"
// @Param        move  body      moveRequest  true  "Target stage"
// @Success      200   {object}  models.Deal
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Router       /pipeline/deals/{id}/move [post]
func (h *DealHandler) Move(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	moved, err := h.Service.MoveStage(c.Request.Context(), id, req.Stage)
	if err != nil {
		respondError(c, h.log, err, "deal not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, moved)
}

// @Summary      Удалить сделку
// @Tags         Deals
// @Security     BearerAuth
// @Param        id   path  int  true  "Deal ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /deals/{id} [delete]
func (h *DealHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "deal not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}
