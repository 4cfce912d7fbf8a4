package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suraj/version24/internal/app/controllers"
	"github.com/suraj/version24/internal/app/models"
	"github.com/suraj/version24/internal/middleware"
)

// SetupRouter configures all application routes. The surface mirrors the
// fest frontend: flat top-level paths, an /admin group behind the admin role.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	// --- Public routes ---
	router.POST("/signup", authController.Signup)
	router.POST("/login", authController.Login)
	router.POST("/logout", authController.Logout)
	router.POST("/confirmemail", authController.ConfirmEmail)
	router.GET("/confirmemail", authController.ConfirmEmail)
	router.POST("/forgetpassword", authController.ForgetPassword)
	router.POST("/resetpassword", authController.ResetPassword)
	router.POST("/generateotp", authController.GenerateOTP)
	router.POST("/verifyotp", authController.VerifyOTP)

	router.GET("/event", eventController.ListEvents)
	router.GET("/event/participants", eventController.GetRoster)

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.GET("/isauthenticated", authController.IsAuthenticated)
		authenticated.GET("/user", userController.GetProfile)
		authenticated.POST("/registerevent", eventController.RegisterTeam)

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/users", adminController.GetAllUsers)
			admin.DELETE("/user", adminController.DeleteUsers)
			admin.GET("/event/participants", adminController.GetRoster)
			admin.POST("/registerevent", adminController.RegisterTeam)
			admin.DELETE("/registerevent", adminController.DeleteRegistration)
		}
	}
}
