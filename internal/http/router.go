package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/pactumhq/pactum-backend/internal/http/handlers"
	httpMW "github.com/pactumhq/pactum-backend/internal/http/middleware"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	ActorMiddleware gin.HandlerFunc
	MetricsHandler  gin.HandlerFunc

	ContractHandler *httpH.ContractHandler
	TemplateHandler *httpH.TemplateHandler
	UserHandler     *httpH.UserHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", cfg.MetricsHandler)
	}

	api := r.Group("/api")
	{
		if cfg.ActorMiddleware != nil {
			api.Use(cfg.ActorMiddleware)
		}

		if cfg.ContractHandler != nil {
			api.GET("/contracts", cfg.ContractHandler.ListContracts)
			api.POST("/contracts", cfg.ContractHandler.CreateContract)
			api.GET("/contracts/:id", cfg.ContractHandler.GetContract)
			api.POST("/contracts/:id/versions", cfg.ContractHandler.CreateVersion)
			api.PATCH("/contracts/:id/status", cfg.ContractHandler.UpdateStatus)
			api.POST("/contracts/:id/finalize", cfg.ContractHandler.FinalizeContract)
			api.POST("/contracts/:id/assign", cfg.ContractHandler.AssignContract)
			api.PUT("/contracts/:id/content", cfg.ContractHandler.UpdateContent)
			api.POST("/contracts/:id/sign", cfg.ContractHandler.SignContract)
			api.POST("/contracts/:id/comments", cfg.ContractHandler.AddComment)
			api.GET("/contracts/:id/activity", cfg.ContractHandler.ListActivity)
			api.GET("/comments/recent", cfg.ContractHandler.RecentComments)
		}

		if cfg.TemplateHandler != nil {
			api.GET("/templates", cfg.TemplateHandler.ListTemplates)
			api.POST("/templates", cfg.TemplateHandler.CreateTemplate)
			api.GET("/templates/:id", cfg.TemplateHandler.GetTemplate)
			api.DELETE("/templates/:id", cfg.TemplateHandler.DeleteTemplate)
		}

		if cfg.UserHandler != nil {
			api.GET("/me", cfg.UserHandler.GetMe)
			api.GET("/users", cfg.UserHandler.ListUsers)
			api.POST("/users", cfg.UserHandler.CreateUser)
		}
	}

	return r
}
