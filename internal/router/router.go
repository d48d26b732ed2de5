package router

import (
	"time"

	"github.com/Vebses/GeoAdmin-sub000/internal/config"
	"github.com/Vebses/GeoAdmin-sub000/internal/handler"
	"github.com/Vebses/GeoAdmin-sub000/internal/infra"
	"github.com/Vebses/GeoAdmin-sub000/internal/middleware"
	"github.com/Vebses/GeoAdmin-sub000/internal/repository"
	"github.com/Vebses/GeoAdmin-sub000/internal/service"
	"github.com/Vebses/GeoAdmin-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carry the process-wide collaborators the router cannot build itself.
type Deps struct {
	DB         *gorm.DB
	RDB        *redis.Client
	SMTPCB     *infra.CircuitBreaker
	Dispatcher *worker.Dispatcher
	Docs       service.CaseDocumentStore
}

// New wires all dependencies and returns a configured Gin engine plus the
// mail service the callback worker consumes.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) (*gin.Engine, service.MailService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	assets := infra.NewAssetFetcher(time.Duration(cfg.AssetFetchTimeout) * time.Second)
	renderOpts := infra.RenderOptions{FontPath: cfg.PDFFontPath}

	// ── Repositories ─────────────────────────────────────────────────────────
	invoiceRepo := repository.NewInvoiceRepository(deps.DB)
	sendRepo := repository.NewSendEventRepository(deps.DB)
	caseRepo := repository.NewCaseRepository(deps.DB)
	actionRepo := repository.NewCaseActionRepository(deps.DB)
	partnerRepo := repository.NewPartnerRepository(deps.DB)
	companyRepo := repository.NewCompanyRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	invoiceSvc := service.NewInvoiceService(invoiceRepo, caseRepo, partnerRepo, companyRepo, actionRepo)
	mailSvc := service.NewMailService(invoiceRepo, sendRepo, mailer, deps.SMTPCB, assets, deps.Docs, cfg.SMTPFrom, renderOpts)
	directorySvc := service.NewDirectoryService(caseRepo, actionRepo, partnerRepo, companyRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	documentsH := handler.NewDocumentsHandler(mailSvc)
	sendH := handler.NewSendHandler(mailSvc)
	webhooksH := handler.NewWebhooksHandler(deps.Dispatcher)
	directoryH := handler.NewDirectoryHandler(directorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.RDB, deps.SMTPCB))

	// Provider webhook — no JWT, its own rate budget
	r.POST("/v1/webhooks/email-delivery", middleware.WebhookRateLimiter(), webhooksH.DeliveryCallback)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		anyRole := middleware.RequireRole(middleware.RoleOperator, middleware.RoleAccountant, middleware.RoleAdmin)
		accounting := middleware.RequireRole(middleware.RoleAccountant, middleware.RoleAdmin)

		// Invoices — operators draft and send; accountants settle and cancel
		v1.GET("/invoices/prefill", anyRole, invoicesH.Prefill)
		v1.POST("/invoices", anyRole, invoicesH.Create)
		v1.GET("/invoices", anyRole, invoicesH.List)
		v1.GET("/invoices/:id", anyRole, invoicesH.Get)
		v1.PUT("/invoices/:id", anyRole, invoicesH.Update)
		v1.DELETE("/invoices/:id", accounting, invoicesH.Delete)
		v1.POST("/invoices/:id/mark-paid", accounting, invoicesH.MarkPaid)
		v1.POST("/invoices/:id/cancel", accounting, invoicesH.Cancel)

		v1.GET("/invoices/:id/document", anyRole, documentsH.Render)

		v1.GET("/invoices/:id/send/preview", anyRole, sendH.Preview)
		v1.POST("/invoices/:id/send", anyRole, sendH.Send)
		v1.GET("/invoices/:id/sends", anyRole, sendH.ListSends)

		// Directory — read-only collaborator views for the wizard
		v1.GET("/cases", anyRole, directoryH.ListCases)
		v1.GET("/cases/:id", anyRole, directoryH.GetCase)
		v1.GET("/cases/:id/actions", anyRole, directoryH.ListCaseActions)
		v1.GET("/partners", anyRole, directoryH.ListPartners)
		v1.GET("/partners/:id", anyRole, directoryH.GetPartner)
		v1.GET("/companies", anyRole, directoryH.ListCompanies)
		v1.GET("/companies/:id", anyRole, directoryH.GetCompany)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, mailSvc
}
