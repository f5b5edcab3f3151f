package router

import (
	"time"

	"github.com/its2darkai/Follow-up-crm/internal/database/repository"
	"github.com/its2darkai/Follow-up-crm/internal/handlers"
	"github.com/its2darkai/Follow-up-crm/internal/middleware"
	"github.com/its2darkai/Follow-up-crm/internal/services"
	"github.com/its2darkai/Follow-up-crm/internal/services/ai"
	"github.com/its2darkai/Follow-up-crm/internal/services/auth"
	"github.com/its2darkai/Follow-up-crm/internal/services/excel"
	"github.com/its2darkai/Follow-up-crm/internal/services/leads"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter wires repositories, services and handlers into the Gin engine.
func SetupRouter(db *gorm.DB, authService *auth.AuthService, notifier *services.NotifierService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewInteractionLogRepository(db)
	knowledgeRepo := repository.NewKnowledgeRepository(db)

	// A typed-nil notifier must not end up inside the interface, or the
	// publisher nil check in the lead service stops working.
	var publisher leads.EventPublisher
	if notifier != nil {
		publisher = notifier
	}

	// Services
	leadService := leads.NewService(logRepo, publisher)
	teamService := services.NewTeamService(userRepo)
	knowledgeService := services.NewKnowledgeService(knowledgeRepo)
	aiService := ai.NewService()
	excelService := excel.NewService()

	// Middleware
	bearerTokenMiddleware := middleware.NewBearerTokenMiddleware(authService, db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	leadHandler := handlers.NewLeadHandler(leadService, excelService)
	teamHandler := handlers.NewTeamHandler(teamService)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeService)
	aiHandler := handlers.NewAIHandler(aiService, knowledgeService, leadService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/refresh", authHandler.RefreshToken)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(bearerTokenMiddleware.BearerTokenAuthMiddleware())
		{
			// Auth protected routes
			authProtected := protected.Group("/auth")
			{
				authProtected.POST("/logout", authHandler.Logout)
				authProtected.GET("/profile", authHandler.Profile)
				authProtected.POST("/change-password", authHandler.ChangePassword)
			}

			// Lead ledger routes
			leadRoutes := protected.Group("/leads")
			{
				leadRoutes.POST("", leadHandler.CreateLead)
				leadRoutes.GET("", leadHandler.ListLeads)
				leadRoutes.GET("/stats", leadHandler.GetLeadStats)
				leadRoutes.GET("/check-phone", leadHandler.CheckPhone)
				leadRoutes.GET("/:id", leadHandler.GetLeadByID)
				leadRoutes.PUT("/:id", leadHandler.UpdateLead)
				leadRoutes.DELETE("/:id", leadHandler.DeleteLead)
			}

			// Company knowledge routes
			knowledgeRoutes := protected.Group("/knowledge")
			{
				knowledgeRoutes.GET("", knowledgeHandler.GetKnowledge)
				knowledgeRoutes.PUT("", bearerTokenMiddleware.RequireAdmin(), knowledgeHandler.SaveKnowledge)
			}

			// AI assistant routes
			aiRoutes := protected.Group("/ai")
			{
				aiRoutes.POST("/refine-notes", aiHandler.RefineNotes)
				aiRoutes.GET("/briefing", aiHandler.DailyBriefing)
				aiRoutes.POST("/draft", aiHandler.MessageDraft)
				aiRoutes.POST("/insights", aiHandler.LeadInsights)
				aiRoutes.POST("/win-probability", aiHandler.WinProbability)
				aiRoutes.POST("/objection", aiHandler.ObjectionHandler)
			}

			// Admin routes (requires admin privileges)
			admin := protected.Group("/admin")
			admin.Use(bearerTokenMiddleware.RequireAdmin())
			{
				admin.GET("/team", teamHandler.ListMembers)
				admin.POST("/team", teamHandler.InviteMember)
				admin.PUT("/team/:id", teamHandler.UpdateMember)
				admin.DELETE("/team/:id", teamHandler.DeleteMember)
				admin.GET("/export", leadHandler.ExportLeads)
			}
		}
	}

	return r
}
