package routes

import (
	"github.com/gin-gonic/gin"

	"todoapp/internal/handlers"
	"todoapp/internal/middleware"
	"todoapp/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authService services.AuthService,
	userService services.UserService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/login", authHandler.Login)
		auth.GET("/oauth/:provider", authHandler.OAuthRedirect)
		auth.GET("/oauth/:provider/callback", authHandler.OAuthCallback)
	}
	r.POST("/user/notifications/unsubscribe", userHandler.Unsubscribe)

	// ---- protected
	authed := r.Group("/", middleware.AuthMiddleware(authService, userService))

	user := authed.Group("/user")
	{
		user.GET("/tasks", taskHandler.ListAssigned)
		user.GET("/tasks/:id", taskHandler.GetByID)
		user.PUT("/tasks/:id/complete", taskHandler.Complete)
		user.POST("/tasks/:id/status", taskHandler.ChangeStatus)
		user.PUT("/notifications/preferences", userHandler.UpdateNotificationPref)
		user.PUT("/notifications/telegram", userHandler.UpdateTelegramLink)
	}

	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.POST("/tasks", taskHandler.Create)
		admin.GET("/tasks", taskHandler.ListAll)
		admin.PUT("/tasks/:id", taskHandler.Update)
		admin.DELETE("/tasks/:id", taskHandler.Delete)
		admin.GET("/reports/tasks", reportHandler.TasksPDF)
	}

	return r
}
