package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/josh-kartchner/traction/internal/auth"
	"github.com/josh-kartchner/traction/internal/cache"
	"github.com/josh-kartchner/traction/internal/config"
	"github.com/josh-kartchner/traction/internal/duedate"
	"github.com/josh-kartchner/traction/internal/handlers"
	"github.com/josh-kartchner/traction/internal/repo"
	"github.com/josh-kartchner/traction/internal/service"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, logger *log.Logger, db *pgxpool.Pool, rdb *redis.Client) error {
	clock, err := duedate.NewClock(cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("clock: %w", err)
	}

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg, db, rdb))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, cfg.App.SessionTTL.Duration())
	userSvc := service.NewUserService(repo.NewPGUserRepo(db), logger)
	registerAuthRoutes(api, handlers.NewAuthHandler(sessionStore, userSvc, cfg.App.CookieSecure))

	projectRepo := repo.NewPGProjectRepo(db)
	sectionRepo := repo.NewPGSectionRepo(db)
	taskRepo := repo.NewPGTaskRepo(db)
	viewCache := cache.NewViewCache(rdb, cfg.Redis.DefaultTTL.Duration())

	projectSvc := service.NewProjectService(projectRepo, viewCache, logger)
	sectionSvc := service.NewSectionService(projectRepo, sectionRepo, viewCache, logger)
	taskSvc := service.NewTaskService(projectRepo, sectionRepo, taskRepo, viewCache, logger)
	reorderSvc := service.NewReorderService(repo.NewPGReorderRepo(db), viewCache, logger)
	viewSvc := service.NewViewService(taskRepo, viewCache, clock, logger)

	protected := api.Group("", auth.RequireSession(sessionStore))
	registerProjectRoutes(protected, handlers.NewProjectHandler(projectSvc), handlers.NewSectionHandler(sectionSvc))
	registerTaskRoutes(protected, handlers.NewTaskHandler(taskSvc))
	registerViewRoutes(protected, handlers.NewViewHandler(viewSvc, reorderSvc))
	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":  "Traction API",
			"version":  cfg.App.Version,
			"env":      cfg.App.Env,
			"timezone": cfg.App.Timezone,
			"docs":     "/swagger/index.html",
			"spec":     "/swagger-doc.json",
			"health":   "/health",
			"api":      "/api/v1",
		})
	}
}

// healthHandler reports 503 when Postgres or Redis does not answer a ping.
func healthHandler(cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		checks := gin.H{"postgres": "ok", "redis": "ok"}
		ok := true
		if db == nil || db.Ping(ctx) != nil {
			checks["postgres"] = "unavailable"
			ok = false
		}
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			checks["redis"] = "unavailable"
			ok = false
		}
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ok": ok, "env": cfg.App.Env, "checks": checks})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}

func registerProjectRoutes(api *gin.RouterGroup, h *handlers.ProjectHandler, sh *handlers.SectionHandler) {
	api.GET("/projects", h.List)
	api.POST("/projects", h.Create)
	api.GET("/projects/:id", h.Get)
	api.PATCH("/projects/:id", h.Update)
	api.POST("/projects/:id/sections", sh.Create)
	api.PATCH("/sections/:id", sh.Update)
	api.DELETE("/sections/:id", sh.Delete)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/projects/:id/tasks", h.CreateInProject)
	api.POST("/tasks", h.Create)
	api.GET("/tasks/search", h.Search)
	api.GET("/tasks/:id", h.Get)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.POST("/tasks/:id/complete", h.Complete)
	api.POST("/tasks/:id/comments", h.AddComment)
	api.POST("/tasks/:id/attachments", h.AddAttachment)
	api.DELETE("/attachments/:id", h.DeleteAttachment)
}

func registerViewRoutes(api *gin.RouterGroup, h *handlers.ViewHandler) {
	api.PATCH("/reorder", h.Reorder)
	api.GET("/my-tasks", h.MyTasks)
	api.GET("/report", h.Report)
	api.GET("/today", h.Today)
}
