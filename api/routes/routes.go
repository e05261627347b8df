package routes

import (
	"github.com/gamework/recognition-backend/internal/config"
	"github.com/gamework/recognition-backend/internal/handlers"
	"github.com/gamework/recognition-backend/internal/metrics"
	"github.com/gamework/recognition-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HandlerDependencies bundles the handlers SetupRouter wires up.
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	LedgerHandler     *handlers.LedgerHandler
	PrizeHandler      *handlers.PrizeHandler
	RedemptionHandler *handlers.RedemptionHandler
	RankingHandler    *handlers.RankingHandler
	EventTypeHandler  *handlers.EventTypeHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, log *logrus.Logger, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(metrics.GinMiddleware())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)
	}

	// Protected routes. Admin-only operations are enforced by the services,
	// which re-check the actor's admin flag from the store on every call.
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg, log))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", deps.UserHandler.GetMe)
			users.GET("/me/transactions", deps.LedgerHandler.GetMyTransactions)
			users.GET("/me/redemptions", deps.RedemptionHandler.GetMyRedemptions)
			users.GET("/:id", deps.UserHandler.GetUserByID)
			users.GET("/:id/balance", deps.UserHandler.GetBalance)
			users.GET("/:id/transactions", deps.LedgerHandler.GetUserTransactions)
			users.GET("", deps.UserHandler.GetAllUsers)
			users.POST("", deps.UserHandler.CreateUser)
			users.PUT("/:id", deps.UserHandler.UpdateUser)
			users.DELETE("/:id", deps.UserHandler.DeleteUser)
		}

		protected.POST("/points", deps.LedgerHandler.AddPoints)

		prizes := protected.Group("/prizes")
		{
			prizes.GET("", deps.PrizeHandler.ListPrizes)
			prizes.GET("/:id", deps.PrizeHandler.GetPrize)
			prizes.POST("", deps.PrizeHandler.CreatePrize)
			prizes.PUT("/:id", deps.PrizeHandler.UpdatePrize)
			prizes.DELETE("/:id", deps.PrizeHandler.DeletePrize)
		}

		protected.POST("/redemptions", deps.RedemptionHandler.Redeem)
		protected.GET("/ranking", deps.RankingHandler.GetRanking)

		eventTypes := protected.Group("/event-types")
		{
			eventTypes.GET("", deps.EventTypeHandler.ListEventTypes)
			eventTypes.GET("/:id", deps.EventTypeHandler.GetEventType)
			eventTypes.POST("", deps.EventTypeHandler.CreateEventType)
			eventTypes.PUT("/:id", deps.EventTypeHandler.UpdateEventType)
			eventTypes.DELETE("/:id", deps.EventTypeHandler.DeleteEventType)
		}
	}

	return router
}
