package server

import (
	"splitmate-server/confs"
	"splitmate-server/db"
	"splitmate-server/handlers"
	httpHandler "splitmate-server/handlers/http"
	"splitmate-server/middleware"
	"splitmate-server/repositories"
	"splitmate-server/services"
	"splitmate-server/usecases"
	"splitmate-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app       *gin.Engine
	db        db.Database
	processor *services.UsageProcessor
}

func NewServer(database db.Database) *Server {
	s := &Server{
		app: gin.Default(),
		db:  database,
	}
	s.setupRoutes()
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.app
}

func (s *Server) setupRoutes() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	// Initialize repositories
	houseRepo := repositories.NewHousePgRepository(s.db)
	userRepo := repositories.NewUserPgRepository(s.db)
	utilityRepo := repositories.NewUtilityPgRepository(s.db)
	usageRepo := repositories.NewUsageRecordPgRepository(s.db)
	tenantBillRepo := repositories.NewTenantBillPgRepository(s.db)
	notificationRepo := repositories.NewNotificationPgRepository(s.db)
	documentRepo := repositories.NewBillDocumentPgRepository(s.db)

	// Initialize use cases
	householdUseCase := usecases.NewHouseholdUseCase(houseRepo, userRepo, utilityRepo)
	billingUseCase := usecases.NewBillingUseCase(houseRepo, utilityRepo, usageRepo, tenantBillRepo, documentRepo)
	notificationsUseCase := usecases.NewNotificationsUseCase(notificationRepo, houseRepo, userRepo, tenantBillRepo)

	// Usage processor buffers sensor readings and flushes them periodically
	s.processor = services.NewUsageProcessor(usageRepo)

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(householdUseCase)
	userHandler := httpHandler.NewUserHandler(householdUseCase)
	houseHandler := httpHandler.NewHouseHandler(householdUseCase)
	utilityHandler := httpHandler.NewUtilityHandler(householdUseCase)
	billHandler := httpHandler.NewBillHandler(billingUseCase)
	usageHandler := httpHandler.NewUsageHandler(billingUseCase)
	notificationHandler := httpHandler.NewNotificationHandler(notificationsUseCase)

	// WebSocket manager and sensor ingest
	manager := ws.NewManager()
	wsHandler := handlers.NewWSHandler(manager, utilityRepo, s.processor)
	cacheHandler := handlers.NewCacheHandler(s.processor)

	// Setup API routes
	api := s.app.Group("/api")
	{
		// Public routes: login, register, and the house list shown pre-login
		api.POST("/users/login", authHandler.Login)
		api.POST("/users/register", authHandler.Register)
		api.GET("/housing/houses", houseHandler.ListHouses)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			// User routes
			users := authed.Group("/users")
			{
				users.GET("/me", userHandler.Me)
				users.POST("/tenants", userHandler.Tenants)
				users.PUT("/removeTenant", userHandler.RemoveTenant)
				users.POST("/addHouse", userHandler.AddHouse)
				users.GET("/:id", userHandler.GetUser)
				users.PUT("/:id", userHandler.UpdateUser)
			}

			authed.GET("/housing/getHouses", houseHandler.GetHouses)

			// Utility registry routes
			utilities := authed.Group("/utilities")
			{
				utilities.POST("/register", utilityHandler.Register)
				utilities.POST("/all", utilityHandler.List)
				utilities.PUT("/update/:id", utilityHandler.Update)
				utilities.DELETE("/delete/:id", utilityHandler.Delete)
			}

			// Bill routes
			bills := authed.Group("/bills")
			{
				bills.POST("", billHandler.GetBill)
				bills.POST("/pay", billHandler.Pay)
				bills.POST("/upload", billHandler.Upload)
				bills.GET("/download/:houseId/:billingDate", billHandler.Download)
			}

			// Notification routes
			notifications := authed.Group("/notifications")
			{
				notifications.POST("/manual", notificationHandler.SendManual)
				notifications.GET("", notificationHandler.List)
				notifications.PATCH("/read/:id", notificationHandler.MarkRead)
				notifications.PATCH("/dismiss/:id", notificationHandler.Dismiss)
				notifications.POST("/remindable", notificationHandler.Remindable)
			}

			// Usage record store
			authed.POST("/usage", usageHandler.Record)
			authed.GET("/sensors/connected", wsHandler.GetConnectedSensors)

			// Cache management endpoints
			cache := authed.Group("/cache")
			{
				cache.POST("/process", cacheHandler.Flush)
				cache.GET("/data", cacheHandler.Data)
				cache.GET("/stats", cacheHandler.Stats)
			}
		}
	}

	s.app.GET("/ws", wsHandler.HandleSensorWS)
}

func (s *Server) Start() {
	s.processor.Start()

	if err := s.app.Run(confs.ListenAddr()); err != nil {
		panic(err)
	}
}
