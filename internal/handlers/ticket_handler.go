package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/models"
	"apexcrm/internal/services"
)

type TicketHandler struct {
	Service services.SupportTicketService
	stats   Invalidator
	log     *zap.Logger
}

func NewTicketHandler(service services.SupportTicketService, stats Invalidator, log *zap.Logger) *TicketHandler {
	return &TicketHandler{Service: service, stats: orNop(stats), log: nopIfNil(log)}
}

// @Summary      Список обращений
// @Tags         Tickets
// @Produce      json
// @Security     BearerAuth
// @Param        search    query  string  false  "subject or customer contains"
// @Param        status    query  string  false  "open|in-progress|resolved|closed|all"
// @Param        priority  query  string  false  "low|medium|high|critical"
// @Param        page      query  int     false  "page (1-based)"
// @Param        size      query  int     false  "page size"
// @Success      200  {object}  models.ListResult[models.SupportTicket]
// @Router       /tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	filter := models.TicketFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   models.TicketStatus(filterValue(c, "status")),
		Priority: models.TicketPriority(filterValue(c, "priority")),
	}
	res, err := h.Service.List(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err, "ticket not found")
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Обращение по id
// @Tags         Tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Ticket ID"
// @Success      200  {object}  models.SupportTicket
// @Failure      404  {object}  map[string]string
// @Router       /tickets/{id} [get]
func (h *TicketHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ticket, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "ticket not found")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// @Summary      Создать обращение
// @Tags         Tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ticket  body      models.SupportTicket  true  "Ticket"
// @Success      201     {object}  models.SupportTicket
// @Failure      400     {object}  map[string]interface{}
// @Router       /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var ticket models.SupportTicket
	if err := c.ShouldBindJSON(&ticket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ticket.ID = 0
	created, err := h.Service.Create(c.Request.Context(), &ticket)
	if err != nil {
		respondError(c, h.log, err, "ticket not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

// @Summary      Обновить обращение
// @Tags         Tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int                   true  "Ticket ID"
// @Param        ticket  body      models.SupportTicket  true  "Ticket"
// @Success      200     {object}  models.SupportTicket
// @Failure      409     {object}  map[string]string
// @Router       /tickets/{id} [put]
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body models.SupportTicket
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id
	updated, err := h.Service.Update(c.Request.Context(), &body)
	if err != nil {
		respondError(c, h.log, err, "ticket not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, updated)
}

type ticketStatusRequest struct {
	Status models.TicketStatus `json:"status" binding:"required"`
}

// @Summary      Сменить статус обращения
// @Tags         Tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int                  true  "Ticket ID"
// @Param        status  body      ticketStatusRequest  true  "New status"
// @Success      200     {object}  models.SupportTicket
// @Failure      409     {object}  map[string]string
// @Router       /tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ticketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.Service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.log, err, "ticket not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Удалить обращение
// @Tags         Tickets
// @Security     BearerAuth
// @Param        id  path  int  true  "Ticket ID"
// @Success      204
// @Router       /tickets/{id} [delete]
func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "ticket not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}
