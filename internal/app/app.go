package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/authz"
	"apexcrm/internal/cache"
	"apexcrm/internal/config"
	"apexcrm/internal/database"
	"apexcrm/internal/handlers"
	"apexcrm/internal/job"
	"apexcrm/internal/metrics"
	"apexcrm/internal/middleware"
	"apexcrm/internal/models"
	"apexcrm/internal/pdf"
	"apexcrm/internal/pipeline"
	"apexcrm/internal/realtime"
	"apexcrm/internal/repositories"
	"apexcrm/internal/routes"
	"apexcrm/internal/seed"
	"apexcrm/internal/services"
)

// NewLogger builds the production zap logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zcfg.Level = lvl
	}
	return zcfg.Build()
}

// Storage is an opened record store. DB is nil for the memory driver.
type Storage struct {
	Repos repositories.Set
	DB    *sql.DB
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// OpenStorage connects the configured driver and applies the schema when
// database.migrate is set.
func OpenStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Info("storage: in-memory")
		return &Storage{Repos: repositories.NewMemorySet()}, nil
	case config.DriverPostgres:
		db, err := database.Open(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := database.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info("storage: schema applied")
		}
		log.Info("storage: postgres")
		return &Storage{Repos: repositories.NewPostgresSet(db), DB: db}, nil
	}
	return nil, fmt.Errorf("%w: unknown driver %q", config.ErrInvalidConfig, cfg.Database.Driver)
}

// Seed loads the fixture into empty tables and makes sure the admin exists.
func Seed(ctx context.Context, cfg *config.Config, repos repositories.Set, auth services.AuthService, log *zap.Logger) error {
	fixture, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, repos, fixture); err != nil {
		return err
	}
	if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
		if err := auth.EnsureUser(ctx, "Administrator", cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, authz.RoleAdmin); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	log.Info("seed data applied")
	return nil
}

type App struct {
	cfg       *config.Config
	log       *zap.Logger
	storage   *Storage
	redis     *cache.Redis
	hub       *realtime.Hub
	scheduler *job.Scheduler
	router    *gin.Engine
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	return NewWithMetrics(ctx, cfg, log, metrics.New())
}

// NewWithMetrics wires every component. The returned App owns the storage
// and must be closed.
func NewWithMetrics(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*App, error) {
	a := &App{cfg: cfg, log: log}

	storage, err := OpenStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.storage = storage
	repos := storage.Repos

	// === Services ===
	authService := services.NewAuthService(repos.Users, cfg.JWT.Secret, cfg.JWT.TTL)
	if cfg.Seed.Enabled {
		if err := Seed(ctx, cfg, repos, authService, log); err != nil {
			a.Close()
			return nil, err
		}
	}

	var statsCache cache.Cache = cache.NewMemory()
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, using in-process cache", zap.Error(err))
		} else {
			a.redis = rc
			statsCache = rc
		}
	}
	dashboardService := services.NewDashboardService(repos, statsCache, cfg.Redis.StatsTTL, log)

	a.hub = realtime.NewHub(log)
	fanout := a.notifiers(m)

	dealService := services.NewDealService(repos.Deals,
		services.WithDealNotifier(fanout),
		services.WithDealRecorder(m),
		services.WithDealLogger(log),
	)
	reportService := services.NewReportService(repos.Deals, pdf.NewReportGenerator(cfg.Files.FontPath))

	// === Jobs ===
	a.scheduler = job.NewScheduler(log)
	overdue := job.NewOverdueJob(repos.Deals, fanout, cfg.Jobs.OverdueLimit, log)
	if err := a.scheduler.Add("overdue_deals", cfg.Jobs.OverdueSpec, overdue); err != nil {
		a.Close()
		return nil, err
	}

	// === Handlers ===
	board := realtime.BoardConfig{
		Session: []pipeline.Option{
			pipeline.WithDebounce(cfg.Pipeline.Debounce),
			pipeline.WithPageSize(cfg.Pipeline.PageSize),
			pipeline.WithLogger(log),
			pipeline.WithRecorder(m),
		},
	}
	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, repos.Users, log),
		Deals:     handlers.NewDealHandler(dealService, dashboardService, log),
		Contacts:  handlers.NewContactHandler(services.NewContactService(repos.Contacts), dashboardService, log),
		Campaigns: handlers.NewCampaignHandler(services.NewCampaignService(repos.Campaigns), dashboardService, log),
		Tickets:   handlers.NewTicketHandler(services.NewSupportTicketService(repos.Tickets), dashboardService, log),
		Pipeline:  handlers.NewPipelineHandler(reportService, log),
		Dashboard: handlers.NewDashboardHandler(dashboardService, log),
		Reports:   handlers.NewReportHandler(reportService, log),
		WS:        handlers.NewWSHandler(dealService, dashboardService, a.hub, board, m, log),
		Metrics:   m.Handler(),
	}

	// === Gin ===
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(m.Middleware())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	a.router = routes.SetupRoutes(router, h, authService)

	return a, nil
}

// notifiers fans notifications out to every configured channel.
func (a *App) notifiers(m *metrics.Metrics) *services.Fanout {
	fanout := services.NewFanout(a.log).
		Add("websocket", a.hub).
		Add("metrics", services.NotifierFunc(func(_ context.Context, n models.Notification) error {
			m.NotificationSent(n.Kind)
			return nil
		}))

	if a.cfg.Telegram.Enabled() {
		tg, err := services.NewTelegramService(a.cfg.Telegram.Token, a.cfg.Telegram.ChatID)
		if err != nil {
			a.log.Warn("telegram disabled", zap.Error(err))
		} else {
			fanout.Add("telegram", tg)
		}
	}
	if a.cfg.Email.Enabled() {
		email := services.NewEmailService(a.cfg.Email.SMTPHost, a.cfg.Email.SMTPPort,
			a.cfg.Email.SMTPUser, a.cfg.Email.SMTPPassword, a.cfg.Email.FromEmail)
		fanout.Add("email", services.NewEmailNotifier(email, a.cfg.Email.Recipients))
	}
	return fanout
}

func (a *App) Handler() http.Handler { return a.router }

func (a *App) Repos() repositories.Set { return a.storage.Repos }

// Run serves HTTP and the scheduled jobs until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.scheduler.Start()
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// hijacked websocket connections are not tracked by Shutdown
	a.hub.CloseAll()
	a.scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.log.Warn("close database", zap.Error(err))
		}
	}
}
