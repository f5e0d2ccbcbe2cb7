package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/library-api/backend/internal/model"
	"github.com/library-api/backend/internal/service"
)

type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Books      *service.BookService
	Categories *service.CategoryService
}

// RegisterRoutes mounts every route group on the engine. Reads on books
// and categories are public (OptionalAuth); writes require an admin role;
// the users group is admin-only end to end.
func RegisterRoutes(r *gin.Engine, svcs Services, version string) {
	r.GET("/", Root(version))
	r.GET("/health", Health(version))
	r.GET("/api/v1/openapi.json", OpenAPIDoc)

	authHandler := NewAuthHandler(svcs.Auth)
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", OptionalAuth(svcs.Auth), authHandler.Logout)
		auth.GET("/me", RequireAuth(svcs.Auth), authHandler.Me)
		auth.PUT("/updatedetails", RequireAuth(svcs.Auth), authHandler.UpdateDetails)
		auth.PUT("/updatepassword", RequireAuth(svcs.Auth), authHandler.UpdatePassword)
		auth.GET("/tokens", RequireAuth(svcs.Auth), authHandler.RevokedTokens)
	}

	bookHandler := NewBookHandler(svcs.Books)
	books := r.Group("/api/v1/books")
	{
		books.GET("", OptionalAuth(svcs.Auth), bookHandler.List)
		books.GET("/:id", OptionalAuth(svcs.Auth), bookHandler.Get)

		adminWrite := []gin.HandlerFunc{
			RequireAuth(svcs.Auth),
			RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
		}
		books.POST("", append(adminWrite, bookHandler.Create)...)
		books.PUT("/:id", append(adminWrite, bookHandler.Update)...)
		books.DELETE("/:id", append(adminWrite, bookHandler.Delete)...)
	}

	categoryHandler := NewCategoryHandler(svcs.Categories)
	categories := r.Group("/api/v1/categories")
	{
		categories.GET("", OptionalAuth(svcs.Auth), categoryHandler.List)
		categories.GET("/:id", OptionalAuth(svcs.Auth), categoryHandler.Get)

		adminWrite := []gin.HandlerFunc{
			RequireAuth(svcs.Auth),
			RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
		}
		categories.POST("", append(adminWrite, categoryHandler.Create)...)
		categories.PUT("/:id", append(adminWrite, categoryHandler.Update)...)
		categories.DELETE("/:id", append(adminWrite, categoryHandler.Delete)...)
	}

	userHandler := NewUserHandler(svcs.Users, svcs.Auth.Revocations())
	users := r.Group("/api/v1/users")
	users.Use(RequireAuth(svcs.Auth), RequireRole(model.RoleAdmin, model.RoleSuperAdmin))
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/blacklist/stats", userHandler.BlacklistStats)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}
}
