package router

import (
	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/config"
	"github.com/stakahashi/machinavi-backend/internal/app/controller"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	storeController        *controller.StoreController
	masterController       *controller.MasterController
	editRequestController  *controller.EditRequestController
	editTokenController    *controller.EditTokenController
	reportController       *controller.ReviewReportController
	notificationController *controller.NotificationController
	uploadController       *controller.UploadController
	portalController       *controller.PortalController
	wsController           *controller.WSController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	masterController *controller.MasterController,
	editRequestController *controller.EditRequestController,
	editTokenController *controller.EditTokenController,
	reportController *controller.ReviewReportController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	portalController *controller.PortalController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		storeController:        storeController,
		masterController:       masterController,
		editRequestController:  editRequestController,
		editTokenController:    editTokenController,
		reportController:       reportController,
		notificationController: notificationController,
		uploadController:       uploadController,
		portalController:       portalController,
		wsController:           wsController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MACHINAVI Admin API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
			auth.PUT("/me/password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
			auth.POST("/users",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.authController.CreateUser,
			)
		}

		// 申請フォームと通報フォームのみ公開
		public := v1.Group("/public")
		{
			public.POST("/edit-requests", r.editRequestController.CreateRequest)
			public.PUT("/edit-requests/:id/documents", r.editRequestController.UpdateDocuments)
			public.POST("/review-reports", r.reportController.CreateReport)
			public.POST("/uploads/presigned-url", r.uploadController.GenerateDocumentPresignedURL)
		}

		// オーナーポータルは編集トークンで認可 (JWT不要)
		portal := v1.Group("/portal/:token")
		{
			portal.GET("", r.portalController.ResolveToken)
			portal.POST("/login", r.portalController.Login)
			portal.POST("/logout", r.portalController.Logout)
			portal.GET("/store", r.portalController.GetStore)
			portal.PUT("/store", r.portalController.UpdateStore)
		}

		stores := v1.Group("/stores", r.authMiddleware.Authenticate())
		{
			stores.GET("", r.storeController.ListStores)
			// /export は /:id より先に登録する
			stores.GET("/export", r.storeController.ExportStores)
			stores.GET("/:id", r.storeController.GetStore)
			stores.POST("", r.storeController.CreateStore)
			stores.PUT("/:id", r.storeController.UpdateStore)
			stores.PUT("/:id/deactivate", r.storeController.DeactivateStore)
			stores.PUT("/:id/activate", r.storeController.ActivateStore)
			stores.GET("/:id/edit-tokens", r.editTokenController.ListTokens)
			stores.DELETE("/:id",
				r.authMiddleware.RequireRole("admin"),
				r.storeController.DeleteStore,
			)
		}

		master := v1.Group("/master", r.authMiddleware.Authenticate())
		{
			master.GET("/genres", r.masterController.ListGenres)
			master.POST("/genres", r.masterController.CreateGenre)
			master.PUT("/genres/:id", r.masterController.UpdateGenre)
			master.DELETE("/genres/:id", r.masterController.DeleteGenre)

			master.GET("/railway-lines", r.masterController.ListRailwayLines)
			master.POST("/railway-lines", r.masterController.CreateRailwayLine)
			master.PUT("/railway-lines/:id", r.masterController.UpdateRailwayLine)
			master.DELETE("/railway-lines/:id", r.masterController.DeleteRailwayLine)

			master.GET("/stations", r.masterController.ListStations)
			master.POST("/stations", r.masterController.CreateStation)
			master.PUT("/stations/:id", r.masterController.UpdateStation)
			master.DELETE("/stations/:id", r.masterController.DeleteStation)

			master.GET("/plans", r.masterController.ListPlans)
			master.POST("/plans", r.masterController.CreatePlan)
			master.PUT("/plans/:id", r.masterController.UpdatePlan)
			master.DELETE("/plans/:id", r.masterController.DeletePlan)
		}

		requests := v1.Group("/edit-requests", r.authMiddleware.Authenticate())
		{
			requests.GET("", r.editRequestController.ListRequests)
			requests.GET("/:id", r.editRequestController.GetRequest)
			requests.POST("/:id/start-review", r.editRequestController.StartReview)
			requests.PUT("/:id/verification", r.editRequestController.SetVerification)
			requests.POST("/:id/approve", r.editRequestController.Approve)
			requests.POST("/:id/reject", r.editRequestController.Reject)
			requests.POST("/:id/cancel-approval", r.editRequestController.CancelApproval)
			requests.PUT("/:id/note", r.editRequestController.UpdateAdminNote)
			requests.GET("/:id/candidates", r.editRequestController.GetCandidates)
			requests.POST("/:id/confirm-match", r.editRequestController.ConfirmMatch)
			requests.DELETE("/rejected",
				r.authMiddleware.RequireRole("admin"),
				r.editRequestController.PurgeRejected,
			)
		}

		tokens := v1.Group("/edit-tokens", r.authMiddleware.Authenticate())
		{
			tokens.POST("", r.editTokenController.IssueToken)
			tokens.DELETE("/:id", r.editTokenController.RevokeToken)
		}

		reports := v1.Group("/review-reports", r.authMiddleware.Authenticate())
		{
			reports.GET("", r.reportController.ListReports)
			reports.GET("/pending-count", r.reportController.CountPending)
			reports.GET("/:id", r.reportController.GetReport)
			reports.POST("/:id/accept", r.reportController.AcceptReport)
			reports.POST("/:id/dismiss", r.reportController.DismissReport)
		}

		notifications := v1.Group("/notifications", r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.PATCH("/:id/read", r.notificationController.MarkAsRead)
			notifications.PATCH("/read-all", r.notificationController.MarkAllAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		}

		uploads := v1.Group("/uploads", r.authMiddleware.Authenticate())
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		// WebSocket はクエリパラメータのトークンで認証する
		ws := v1.Group("/ws", r.authMiddleware.Authenticate())
		{
			ws.GET("/notifications", r.wsController.HandleNotifications)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Portal-Session, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
