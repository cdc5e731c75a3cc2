package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/authz"
	"apexcrm/internal/models"
	"apexcrm/internal/pipeline"
	"apexcrm/internal/realtime"
)

// SessionObserver is told when board sessions start and end.
type SessionObserver interface {
	SessionOpened()
	SessionClosed()
}

type nopObserver struct{}

func (nopObserver) SessionOpened() {}
func (nopObserver) SessionClosed() {}

// invalidatingStore drops cached dashboard stats after every write a board
// session makes.
type invalidatingStore struct {
	pipeline.Store
	stats Invalidator
}

func (s invalidatingStore) Create(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	out, err := s.Store.Create(ctx, d)
	if err == nil {
		s.stats.Invalidate(ctx)
	}
	return out, err
}

func (s invalidatingStore) Update(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	out, err := s.Store.Update(ctx, d)
	if err == nil {
		s.stats.Invalidate(ctx)
	}
	return out, err
}

func (s invalidatingStore) Delete(ctx context.Context, id int64) error {
	err := s.Store.Delete(ctx, id)
	if err == nil {
		s.stats.Invalidate(ctx)
	}
	return err
}

type WSHandler struct {
	deals    pipeline.Store
	hub      *realtime.Hub
	cfg      realtime.BoardConfig
	observer SessionObserver
	log      *zap.Logger
}

func NewWSHandler(deals pipeline.Store, stats Invalidator, hub *realtime.Hub, cfg realtime.BoardConfig, observer SessionObserver, log *zap.Logger) *WSHandler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &WSHandler{
		deals:    invalidatingStore{Store: deals, stats: orNop(stats)},
		hub:      hub,
		cfg:      cfg,
		observer: observer,
		log:      nopIfNil(log),
	}
}

// @Summary      Сессия канбан-доски (websocket)
// @Description  One board session per connection. Roles that cannot edit the pipeline (audit) get a read-only session. Send {"type":"load"|"search"|"drag_start"|"drop"|...}; receive board, toast, form_errors, confirm_required and notification frames.
// @Tags         Pipeline
// @Param        token  query  string  false  "JWT for browsers that cannot set headers"
// @Router       /ws/pipeline [get]
func (h *WSHandler) Board(c *gin.Context) {
	conn, err := realtime.Upgrade(c.Writer, c.Request, h.log)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	userID, roleID := getUserAndRole(c)
	cfg := h.cfg
	cfg.ReadOnly = !authz.CanEditPipeline(roleID)
	h.hub.Register(conn)
	h.observer.SessionOpened()
	h.log.Info("board session opened", zap.Int64("user_id", userID), zap.Bool("read_only", cfg.ReadOnly))
	defer func() {
		h.hub.Unregister(conn)
		h.observer.SessionClosed()
		h.log.Info("board session closed", zap.Int64("user_id", userID))
	}()

	if err := realtime.ServeBoard(c.Request.Context(), conn, h.deals, cfg); err != nil {
		h.log.Warn("board session ended with error", zap.Error(err))
	}
}

// @Summary      Поток уведомлений (websocket)
// @Tags         Notifications
// @Param        token  query  string  false  "JWT for browsers that cannot set headers"
// @Router       /ws/notifications [get]
func (h *WSHandler) Notifications(c *gin.Context) {
	conn, err := realtime.Upgrade(c.Writer, c.Request, h.log)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	go conn.WritePump()
	conn.ReadPump(func([]byte) {})
}
