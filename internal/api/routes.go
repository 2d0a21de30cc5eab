package api

import (
	"dapptrack/internal/config"     // Application configuration
	"dapptrack/internal/directory"  // Organization directory
	"dapptrack/internal/ledger"     // Ledger client
	"dapptrack/internal/middleware" // Custom middleware
	"dapptrack/internal/views"      // Page builders
	"time"                          // Rate limit window

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// uploadsPerMinute bounds proof uploads per client
const uploadsPerMinute = 20

// Deps are the collaborators the routes are wired to
type Deps struct {
	Config    *config.Config     // Application configuration
	DB        *gorm.DB           // Directory and operator storage
	Redis     *redis.Client      // Cache, may be nil
	Pinner    ProofPinner        // Proof storage
	Events    EventSource        // Indexer events
	Orgs      OrgLookup          // Single organization reads
	Txs       TxLookup           // Transaction status
	Snapshots SnapshotSource     // Shared ledger snapshot
	Directory *directory.Store   // Directory store
	Publisher DirectoryPublisher // Directory snapshot publisher
	Payloads  ledger.Payloads    // Entry-function payload builders
	Pages     *views.Pages       // Page builders
}

// RegisterRoutes mounts every endpoint under /api
func RegisterRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	api.GET("/health", HealthHandler(d.Config, d.Redis))                                                         // Health check
	api.POST("/upload-proof", middleware.RateLimit(uploadsPerMinute, time.Minute), UploadProofHandler(d.Pinner)) // Proof upload
	api.GET("/events/:kind", EventsHandler(d.Events, d.Redis))                                                   // Indexed events

	// Organization directory
	orgs := api.Group("/organizations")
	orgs.POST("", RegisterOrganizationHandler(d.Directory, d.Publisher, d.Redis)) // Register
	orgs.GET("", ListOrganizationsHandler(d.Directory, d.Redis))                  // List
	orgs.GET("/:id", GetOrganizationHandler(d.Directory))                         // Get one
	orgs.POST("/:id/review", AddReviewHandler(d.Directory, d.Publisher, d.Redis)) // Review
	// Moderation is limited to operators
	orgs.PATCH("/:id/verification",
		middleware.JWTAuthMiddleware(d.Config.JWTSecret),
		middleware.OperatorOnlyMiddleware(d.DB),
		VerifyOrganizationHandler(d.Directory, d.Publisher, d.Redis),
	)

	api.POST("/operators/login", LoginHandler(d.DB, d.Config.JWTSecret)) // Operator login

	// Entry-function payloads for the browser wallet
	txs := api.Group("/transactions")
	txs.POST("/register-organization", RegisterOrganizationPayloadHandler(d.Payloads)) // register_organization
	txs.POST("/create-project", CreateProjectPayloadHandler(d.Payloads))               // create_project
	txs.POST("/donate", DonatePayloadHandler(d.Payloads))                              // donate_to_organization
	txs.POST("/record-expense", RecordExpensePayloadHandler(d.Payloads))               // record_expense
	txs.GET("/:hash", TransactionStatusHandler(d.Txs, d.Snapshots, d.Redis))           // Confirmation status

	// Presentation pages
	pages := api.Group("/pages")
	pages.GET("/track", PageHandler(d.Snapshots, TrackPage(d.Pages)))                        // Ledger explorer
	pages.GET("/donate", PageHandler(d.Snapshots, DonatePage(d.Pages)))                      // Donation picker
	pages.GET("/verify", PageHandler(d.Snapshots, VerifyPage(d.Pages)))                      // Expense proofs
	pages.GET("/deliver", PageHandler(d.Snapshots, DeliverPage(d.Pages)))                    // Project delivery
	pages.GET("/audit", PageHandler(d.Snapshots, AuditPage(d.Pages)))                        // Audit trail
	pages.GET("/admin/:address", AdminPageHandler(d.Snapshots, d.Pages))                     // Admin dashboard
	pages.GET("/directory", DirectoryPageHandler(d.Snapshots, d.Directory, d.Pages))         // Organization directory
	pages.GET("/organizations/:id", OrganizationDetailHandler(d.Orgs, d.Snapshots, d.Pages)) // Organization detail
}
