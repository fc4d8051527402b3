package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/auth"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/config"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/handlers"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/middleware"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Config   *config.Config
	Store    *repository.Store
	Logger   zerolog.Logger
	Notifier services.Notifier
}

// App is the assembled HTTP surface plus the websocket hub, which the caller
// closes on shutdown.
type App struct {
	Engine *gin.Engine
	Hub    *handlers.Hub
}

func NewRouter(deps Dependencies) (*App, error) {
	cfg, log := deps.Config, deps.Logger

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	hub := handlers.NewHub(cfg.Origins(), log)

	access := services.NewAccess(deps.Store, services.AccessOptions{
		InvitePolicy: cfg.InvitePolicy,
		TaskPolicy:   cfg.TaskAccessPolicy,
		Notifier:     deps.Notifier,
		Events:       hub,
		Logger:       log,
	})
	creds := services.NewCredentials(deps.Store, tokens, log)
	projects := services.NewProjects(deps.Store, access, hub, log)
	tasks := services.NewTasks(deps.Store, access, hub, log)

	authHandler := handlers.NewAuthHandler(creds, log)
	userHandler := handlers.NewUserHandler(services.NewDirectory(deps.Store), log)
	projectHandler := handlers.NewProjectHandler(projects, access, log)
	taskHandler := handlers.NewTaskHandler(tasks, log)
	healthHandler := handlers.NewHealthHandler(deps.Store, log)

	handlers.RegisterValidators()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.Secure(middleware.SecureOptions(cfg.IsDevelopment())))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.AuthMiddleware(creds, log)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.HealthCheck)
		api.GET("/ws/:projectId", middleware.QueryTokenAuth(creds, log), hub.Serve(access))

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", userHandler.Me)
			users.GET("/search", userHandler.Search)
			users.GET("/:id", userHandler.Get)
		}

		projectsGroup := api.Group("/projects", requireAuth)
		{
			projectsGroup.GET("", projectHandler.ListProjects)
			projectsGroup.POST("", projectHandler.CreateProject)
			projectsGroup.GET("/:id", projectHandler.GetProject)
			projectsGroup.PATCH("/:id", projectHandler.UpdateProject)
			projectsGroup.DELETE("/:id", projectHandler.DeleteProject)
			projectsGroup.POST("/:id/invite", projectHandler.Invite)
			projectsGroup.POST("/:id/remove-member", projectHandler.RemoveMember)
		}

		tasksGroup := api.Group("/tasks", requireAuth)
		{
			tasksGroup.POST("/project/:projectId", taskHandler.CreateTask)
			tasksGroup.GET("/project/:projectId", taskHandler.ListTasks)
			tasksGroup.GET("/:id", taskHandler.GetTask)
			tasksGroup.PUT("/:id", taskHandler.UpdateTask)
			tasksGroup.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return &App{Engine: r, Hub: hub}, nil
}
