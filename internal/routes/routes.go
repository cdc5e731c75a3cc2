package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "apexcrm/docs"
	"apexcrm/internal/authz"
	"apexcrm/internal/handlers"
	"apexcrm/internal/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Deals     *handlers.DealHandler
	Contacts  *handlers.ContactHandler
	Campaigns *handlers.CampaignHandler
	Tickets   *handlers.TicketHandler
	Pipeline  *handlers.PipelineHandler
	Dashboard *handlers.DashboardHandler
	Reports   *handlers.ReportHandler
	WS        *handlers.WSHandler
	Metrics   gin.HandlerFunc
}

func SetupRoutes(r *gin.Engine, h Handlers, tokens middleware.TokenParser) *gin.Engine {
	// ---- public
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if h.Metrics != nil {
		r.GET("/metrics", h.Metrics)
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.POST("/login", h.Auth.Login)

	// ---- protected
	r.Use(middleware.AuthMiddleware(tokens))
	r.Use(middleware.ReadOnlyGuard())

	r.GET("/me", h.Auth.Me)
	r.GET("/dashboard", h.Dashboard.Stats)

	pipelineRoles := middleware.RequireRoles(authz.RoleSales, authz.RoleOperations, authz.RoleManagement, authz.RoleAdmin, authz.RoleAudit)

	// DEALS
	deals := r.Group("/deals", pipelineRoles)
	{
		deals.GET("", h.Deals.List)
		deals.POST("", h.Deals.Create)
		deals.GET("/:id", h.Deals.GetByID)
		deals.PUT("/:id", h.Deals.Update)
		deals.DELETE("/:id", h.Deals.Delete)
	}

	// PIPELINE
	pipe := r.Group("/pipeline")
	{
		pipe.GET("/stages", h.Pipeline.Stages)
		pipe.GET("/board", pipelineRoles, h.Pipeline.Board)
		pipe.POST("/deals/:id/move", pipelineRoles, h.Deals.Move)
	}

	// CONTACTS
	contacts := r.Group("/contacts")
	{
		contacts.GET("", h.Contacts.List)
		contacts.POST("", h.Contacts.Create)
		contacts.GET("/:id", h.Contacts.GetByID)
		contacts.PUT("/:id", h.Contacts.Update)
		contacts.DELETE("/:id", h.Contacts.Delete)
	}

	// CAMPAIGNS
	campaigns := r.Group("/campaigns")
	{
		campaigns.GET("", h.Campaigns.List)
		campaigns.POST("", h.Campaigns.Create)
		campaigns.GET("/:id", h.Campaigns.GetByID)
		campaigns.PUT("/:id", h.Campaigns.Update)
		campaigns.DELETE("/:id", h.Campaigns.Delete)
	}

	// SUPPORT TICKETS
	tickets := r.Group("/tickets")
	{
		tickets.GET("", h.Tickets.List)
		tickets.POST("", h.Tickets.Create)
		tickets.GET("/:id", h.Tickets.GetByID)
		tickets.PUT("/:id", h.Tickets.Update)
		tickets.PATCH("/:id/status", h.Tickets.UpdateStatus)
		tickets.DELETE("/:id", h.Tickets.Delete)
	}

	// REPORTS
	reports := r.Group("/reports", middleware.RequireRoles(authz.RoleManagement, authz.RoleAdmin, authz.RoleAudit))
	{
		reports.GET("/pipeline.pdf", h.Reports.PipelinePDF)
	}

	// WEBSOCKETS (token may come as ?token=)
	ws := r.Group("/ws")
	{
		ws.GET("/pipeline", pipelineRoles, h.WS.Board)
		ws.GET("/notifications", h.WS.Notifications)
	}

	return r
}
