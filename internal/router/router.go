package router

import (
	"time"

	"todo-app/backend/internal/auth"
	"todo-app/backend/internal/config"
	"todo-app/backend/internal/handlers"
	"todo-app/backend/internal/middleware"
	"todo-app/backend/internal/services"
	"todo-app/backend/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New assembles the gin engine: middleware chain, JSON API routes, the
// admin surface, and the server-rendered pages.
func New(cfg *config.Config, db *gorm.DB, store *session.Store) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(middleware.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.LoadHTMLGlob(cfg.Server.TemplatesGlob)

	taskService := services.NewTaskService()
	userService := services.NewUserService(auth.NewHasher(cfg.Auth.BCryptCost))

	taskHandler := handlers.NewTaskHandler(db, taskService)
	userHandler := handlers.NewUserHandler(db, userService, store, cfg.Session)
	adminHandler := handlers.NewAdminHandler(db, taskService)
	webHandler := handlers.NewWebHandler(db, taskService, userService, store, cfg.Session)

	sm := middleware.NewSessionMiddleware(store, cfg.Session.CookieName)

	users := engine.Group("/api/users")
	{
		users.POST("/signup", userHandler.Signup)
		users.POST("/login", userHandler.Login)
		users.POST("/logout", userHandler.Logout)
	}

	tasks := engine.Group("/api/tasks")
	tasks.Use(sm.RequireAPI())
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/search", taskHandler.SearchTasks)
		tasks.DELETE("/bulk", taskHandler.BulkDeleteTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	admin := engine.Group("/api/admin")
	admin.Use(middleware.RequireAdmin(cfg.Auth.AdminSecret))
	{
		admin.GET("/tasks", adminHandler.ListAllTasks)
	}

	engine.GET("/signup", webHandler.SignupForm)
	engine.POST("/signup", webHandler.Signup)
	engine.GET("/login", webHandler.LoginForm)
	engine.POST("/login", webHandler.Login)
	engine.POST("/logout", webHandler.Logout)

	pages := engine.Group("/")
	pages.Use(sm.RequireWeb())
	{
		pages.GET("", webHandler.ListPage)
		pages.GET("/create", webHandler.CreateForm)
		pages.POST("/create", webHandler.CreateTask)
		pages.POST("/toggle/:id", webHandler.ToggleTask)
		pages.POST("/delete/:id", webHandler.DeleteTask)
	}

	return engine
}
