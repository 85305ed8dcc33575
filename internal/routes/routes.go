package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ghostsapi/internal/authz"
	"ghostsapi/internal/handlers"
	"ghostsapi/internal/middleware"
	"ghostsapi/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	security services.SecurityService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	addressHandler *handlers.AddressHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/request-email-verification", authHandler.RequestEmailVerification)
		auth.POST("/confirm-email", authHandler.ConfirmEmail)
		auth.POST("/request-password-reset", authHandler.RequestPasswordReset)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/undo-password-change", authHandler.UndoPasswordChange)
		auth.POST("/verify-token", authHandler.VerifyToken)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware(security))

	users := r.Group("/users")
	{
		users.GET("/", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUserByID)
		users.GET("/email/:email", userHandler.GetUserByEmail)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", middleware.RequireRoles(authz.RoleAdmin), userHandler.DeleteUser)
	}

	addresses := r.Group("/addresses")
	{
		addresses.POST("/", addressHandler.CreateAddress)
		addresses.GET("/:id", addressHandler.GetAddress)
		addresses.GET("/user/:user_id", addressHandler.ListAddressesByUser)
		addresses.PUT("/:id", addressHandler.UpdateAddress)
		addresses.DELETE("/:id", addressHandler.DeleteAddress)
	}

	return r
}
