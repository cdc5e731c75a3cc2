package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/models"
	"apexcrm/internal/services"
)

type ContactHandler struct {
	Service services.ContactService
	stats   Invalidator
	log     *zap.Logger
}

func NewContactHandler(service services.ContactService, stats Invalidator, log *zap.Logger) *ContactHandler {
	return &ContactHandler{Service: service, stats: orNop(stats), log: nopIfNil(log)}
}

// @Summary      Список контактов
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Param        search  query  string  false  "name, company or email contains"
// @Param        type    query  string  false  "client|lead|vendor|all"
// @Param        status  query  string  false  "active|inactive"
// @Param        page    query  int     false  "page (1-based)"
// @Param        size    query  int     false  "page size"
// @Success      200  {object}  models.ListResult[models.Contact]
// @Router       /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	filter := models.ContactFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Type:   models.ContactType(filterValue(c, "type")),
		Status: models.ContactStatus(filterValue(c, "status")),
	}
	res, err := h.Service.List(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err, "contact not found")
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Контакт по id
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Contact ID"
// @Success      200  {object}  models.Contact
// @Failure      404  {object}  map[string]string
// @Router       /contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "contact not found")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// @Summary      Создать контакт
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        contact  body      models.Contact  true  "Contact"
// @Success      201      {object}  models.Contact
// @Failure      400      {object}  map[string]interface{}
// @Router       /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var contact models.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact.ID = 0
	created, err := h.Service.Create(c.Request.Context(), &contact)
	if err != nil {
		respondError(c, h.log, err, "contact not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

// @Summary      Обновить контакт
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int             true  "Contact ID"
// @Param        contact  body      models.Contact  true  "Contact"
// @Success      200      {object}  models.Contact
// @Failure      404      {object}  map[string]string
// @Router       /contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body models.Contact
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id
	updated, err := h.Service.Update(c.Request.Context(), &body)
	if err != nil {
		respondError(c, h.log, err, "contact not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Удалить контакт
// @Tags         Contacts
// @Security     BearerAuth
// @Param        id  path  int  true  "Contact ID"
// @Success      204
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "contact not found")
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}
