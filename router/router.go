package router

import (
	"time"

	"testcase-generator/config"
	"testcase-generator/controllers"
	"testcase-generator/middlewares"
	"testcase-generator/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	DB              *gorm.DB
	Logger          *zap.Logger
	Server          config.Server
	RateLimit       config.RateLimit
	AuthService     services.IAuthService
	ProjectService  services.IProjectService
	TestCaseService services.ITestCaseService
}

func NewRouter(deps Deps) *gin.Engine {
	authController := controllers.NewAuthController(deps.AuthService)
	projectController := controllers.NewProjectController(deps.ProjectService, deps.TestCaseService)
	testCaseController := controllers.NewTestCaseController(deps.TestCaseService)
	healthController := controllers.NewHealthController(deps.DB)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID(deps.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{middlewares.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authMiddleware := middlewares.AuthMiddleware(deps.AuthService)
	generateLimiter := middlewares.NewUserRateLimiter(deps.RateLimit)

	r.GET("/", healthController.Root)
	r.GET("/health", healthController.Health)

	r.POST("/signup", authController.Signup)
	r.POST("/token", authController.Login)
	r.POST("/logout", authController.Logout)

	userRouterWithAuth := r.Group("/users", authMiddleware)
	userRouterWithAuth.GET("/me", authController.Me)
	userRouterWithAuth.DELETE("/me", authController.DeleteMe)

	projectRouterWithAuth := r.Group("/projects", authMiddleware)
	projectRouterWithAuth.GET("", projectController.FindAll)
	projectRouterWithAuth.POST("", projectController.Create)
	projectRouterWithAuth.GET("/:id", projectController.FindByID)
	projectRouterWithAuth.PUT("/:id", projectController.Update)
	projectRouterWithAuth.DELETE("/:id", projectController.Delete)

	projectRouterWithAuth.POST("/:id/generate-test-cases", generateLimiter.Middleware(), testCaseController.Generate)
	projectRouterWithAuth.GET("/:id/features/:feature_name/test-cases", testCaseController.ListByFeature)
	projectRouterWithAuth.DELETE("/:id/features/:feature_name", testCaseController.DeleteByFeature)

	return r
}
