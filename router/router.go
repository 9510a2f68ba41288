package router

import (
	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/NomadCrew/nomad-crew-planner/handlers"
	"github.com/NomadCrew/nomad-crew-planner/internal/metrics"
	"github.com/NomadCrew/nomad-crew-planner/middleware"
	"github.com/NomadCrew/nomad-crew-planner/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	TokenValidator    middleware.TokenValidator
	RateLimiter       services.RateLimiterInterface
	Metrics           *metrics.Metrics
	Gatherer          prometheus.Gatherer
	AuthHandler       *handlers.AuthHandler
	TripHandler       *handlers.TripHandler
	MemberHandler     *handlers.MemberHandler
	InvitationHandler *handlers.InvitationHandler
	StepHandler       *handlers.StepHandler
	ExpenseHandler    *handlers.ExpenseHandler
	HealthHandler     *handlers.HealthHandler
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	// Global Middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.SecurityHeadersMiddleware(&deps.Config.Server))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.ErrorHandler())

	// Health and Metrics Routes (typically don't require auth)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation
	if deps.Config.Server.Environment != config.EnvProduction {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limits := deps.Config.RateLimit
	authLimit := middleware.RateLimiter(deps.RateLimiter, "auth", limits.AuthRequestsPerMinute, limits.Window())
	writeLimit := middleware.WriteOnly(
		middleware.RateLimiter(deps.RateLimiter, "write", limits.WriteRequestsPerMinute, limits.Window()),
	)

	v1 := r.Group("/v1")
	{
		// Public routes
		authRoutes := v1.Group("/auth", authLimit)
		authRoutes.POST("/register", deps.AuthHandler.RegisterHandler)
		authRoutes.POST("/login", deps.AuthHandler.LoginHandler)

		v1.GET("/trips/count", deps.TripHandler.CountTripsHandler)

		// --- Authenticated Routes ---
		private := v1.Group("")
		private.Use(middleware.AuthMiddleware(deps.TokenValidator), writeLimit)
		{
			private.GET("/users/me", deps.AuthHandler.MeHandler)
			private.GET("/expense-categories", deps.ExpenseHandler.ListCategoriesHandler)

			private.GET("/invitations/:invitationId", deps.InvitationHandler.GetInvitationHandler)
			private.PATCH("/invitations/:invitationId", deps.InvitationHandler.RespondToInvitationHandler)

			tripRoutes := private.Group("/trips")
			{
				tripRoutes.POST("", deps.TripHandler.CreateTripHandler)
				tripRoutes.GET("", deps.TripHandler.ListUserTripsHandler)
				tripRoutes.GET("/:id", deps.TripHandler.GetTripHandler)
				tripRoutes.DELETE("/:id", deps.TripHandler.DeleteTripHandler)

				tripRoutes.GET("/:id/members", deps.MemberHandler.ListMembersHandler)
				tripRoutes.DELETE("/:id/members/:userId", deps.MemberHandler.RemoveMemberHandler)

				tripRoutes.POST("/:id/invitations", deps.InvitationHandler.CreateInvitationHandler)
				tripRoutes.GET("/:id/invitations", deps.InvitationHandler.ListInvitationsHandler)

				tripRoutes.GET("/:id/steps", deps.StepHandler.ListStepsHandler)
				tripRoutes.POST("/:id/steps", deps.StepHandler.AddStepHandler)
				tripRoutes.DELETE("/:id/steps/:stepId", deps.StepHandler.DeleteStepHandler)
				tripRoutes.GET("/:id/steps/:stepId/votes", deps.StepHandler.BrowseVotesHandler)
				tripRoutes.POST("/:id/steps/:stepId/votes", deps.StepHandler.CastVoteHandler)

				tripRoutes.GET("/:id/expenses", deps.ExpenseHandler.ListExpensesHandler)
				tripRoutes.POST("/:id/expenses", deps.ExpenseHandler.AddExpenseHandler)
				tripRoutes.GET("/:id/expenses/summary", deps.ExpenseHandler.SummaryHandler)
				tripRoutes.DELETE("/:id/expenses/:expenseId", deps.ExpenseHandler.DeleteExpenseHandler)
			}
		}
	}

	return r
}
