package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saralbooks/saralbooks/internal/config"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/saralbooks/saralbooks/internal/document/render"
	dutydomain "github.com/saralbooks/saralbooks/internal/dutyledger/domain"
	"github.com/saralbooks/saralbooks/internal/observability"
	obsmiddleware "github.com/saralbooks/saralbooks/internal/observability/logger"
	obsmetrics "github.com/saralbooks/saralbooks/internal/observability/metrics"
	obstracing "github.com/saralbooks/saralbooks/internal/observability/tracing"
	partydomain "github.com/saralbooks/saralbooks/internal/party/domain"
	reportdomain "github.com/saralbooks/saralbooks/internal/report/domain"
	"github.com/saralbooks/saralbooks/internal/seed"
	stockdomain "github.com/saralbooks/saralbooks/internal/stock/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
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

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
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
	engine         *gin.Engine
	defaultCompany seed.DefaultCompany
	partySvc       partydomain.Service
	stockSvc       stockdomain.Service
	dutyLedgerSvc  dutydomain.Service
	documentSvc    documentdomain.Service
	reportSvc      reportdomain.Service
	renderer       render.Renderer
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	DefaultCompany seed.DefaultCompany
	PartySvc       partydomain.Service
	StockSvc       stockdomain.Service
	DutyLedgerSvc  dutydomain.Service
	DocumentSvc    documentdomain.Service
	ReportSvc      reportdomain.Service
	Renderer       render.Renderer
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		defaultCompany: p.DefaultCompany,
		partySvc:       p.PartySvc,
		stockSvc:       p.StockSvc,
		dutyLedgerSvc:  p.DutyLedgerSvc,
		documentSvc:    p.DocumentSvc,
		reportSvc:      p.ReportSvc,
		renderer:       p.Renderer,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")
	v1.Use(s.CompanyContext())

	// -------- Parties --------
	v1.GET("/parties", s.ListParties)
	v1.POST("/parties", s.CreateParty)
	v1.PATCH("/parties/:id", s.UpdateParty)
	v1.DELETE("/parties/:id", s.DeleteParty)

	// -------- Stock catalog --------
	v1.GET("/stock-items", s.ListStockItems)
	v1.POST("/stock-items", s.CreateStockItem)
	v1.PATCH("/stock-items/:id", s.UpdateStockItem)
	v1.DELETE("/stock-items/:id", s.DeleteStockItem)

	// -------- Duty/tax masters --------
	v1.GET("/duty-ledgers", s.ListDutyLedgers)
	v1.POST("/duty-ledgers", s.CreateDutyLedger)
	v1.PATCH("/duty-ledgers/:id", s.UpdateDutyLedger)
	v1.DELETE("/duty-ledgers/:id", s.DeleteDutyLedger)

	// -------- Documents --------
	// "new" and "recalculate" must register before ":id".
	v1.GET("/documents/new", s.NewDocumentDraft)
	v1.POST("/documents/recalculate", s.RecalculateDocument)
	v1.GET("/documents", s.ListDocuments)
	v1.POST("/documents", s.CreateDocument)
	v1.GET("/documents/:id", s.GetDocumentByID)
	v1.PUT("/documents/:id", s.UpdateDocument)
	v1.DELETE("/documents/:id", s.DeleteDocument)
	v1.GET("/documents/:id/pdf", s.RenderDocumentPDF)

	// -------- Reports --------
	v1.GET("/reports/summary", s.GetReportSummary)
}
