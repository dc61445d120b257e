package auth

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devtrailhq/devtrail/internal/config"
)

// RegisterRoutes registers the auth routes and initializes dependencies.
// The repository and protect middleware are returned so other features can
// share them without re-resolving users.
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, mail Sender) (*Repository, gin.HandlerFunc) {
	repo := NewRepository(db)
	handler := NewHandler(repo, cfg, mail)
	protect := Protect(repo, cfg)

	auth := router.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.GET("/logout", handler.Logout)
		auth.GET("/me", protect, handler.Me)
		auth.PATCH("/updateuserprofile", protect, handler.UpdateProfile)
		auth.PUT("/updateuserpassword", protect, handler.UpdatePassword)
		auth.POST("/forgotpassword", handler.ForgotPassword)
		auth.PUT("/resetpassword/:resettoken", handler.ResetPassword)
	}

	return repo, protect
}
