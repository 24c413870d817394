package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/clientdesk/internal/analytics"
	analyticsdomain "github.com/smallbiznis/clientdesk/internal/analytics/domain"
	"github.com/smallbiznis/clientdesk/internal/billing"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	"github.com/smallbiznis/clientdesk/internal/client"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/config"
	"github.com/smallbiznis/clientdesk/internal/export"
	"github.com/smallbiznis/clientdesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/clientdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/clientdesk/internal/observability/metrics"
	"github.com/smallbiznis/clientdesk/internal/providers"
	"github.com/smallbiznis/clientdesk/internal/providers/email"
	"github.com/smallbiznis/clientdesk/internal/reminderlog"
	reminderlogdomain "github.com/smallbiznis/clientdesk/internal/reminderlog/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	client.Module,
	billing.Module,
	analytics.Module,
	export.Module,
	providers.Module,
	reminderlog.Module,
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	clientSvc       clientdomain.Service
	billingSvc      billingdomain.Service
	analyticsSvc    analyticsdomain.Service
	exportSvc       export.Service
	reminderSvc     email.ReminderService
	reminderLogRepo reminderlogdomain.Repository
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	ClientSvc       clientdomain.Service
	BillingSvc      billingdomain.Service
	AnalyticsSvc    analyticsdomain.Service
	ExportSvc       export.Service
	ReminderSvc     email.ReminderService
	ReminderLogRepo reminderlogdomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		clientSvc:       p.ClientSvc,
		billingSvc:      p.BillingSvc,
		analyticsSvc:    p.AnalyticsSvc,
		exportSvc:       p.ExportSvc,
		reminderSvc:     p.ReminderSvc,
		reminderLogRepo: p.ReminderLogRepo,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	// -------- Bills --------
	api.GET("/bills", s.ListBills)
	api.POST("/bills", s.CreateBill)
	api.GET("/bills/:id", s.GetBillByID)
	api.PATCH("/bills/:id", s.UpdateBill)
	api.DELETE("/bills/:id", s.DeleteBill)
	api.GET("/bills/:id/pdf", s.GetBillPDF)
	api.POST("/bills/:id/remind", s.SendBillReminder)
	api.POST("/bills/remind-bulk", s.SendBulkBillReminders)

	// -------- Analytics --------
	api.GET("/analytics/summary", s.AnalyticsSummary)
	api.GET("/analytics/clients", s.AnalyticsClientScores)
	api.GET("/analytics/invoices", s.AnalyticsInvoices)
	api.GET("/analytics/forecast", s.AnalyticsForecast)
	api.GET("/analytics/engagement", s.AnalyticsEngagement)
	api.GET("/analytics/overview", s.AnalyticsOverview)

	// -------- Export --------
	api.POST("/export", s.ExportCSV)

	// -------- Reminder Logs --------
	api.GET("/reminder-logs", s.ListReminderLogs)
}
