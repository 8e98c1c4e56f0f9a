package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/pactumhq/pactum-backend/internal/http"
	httpMW "github.com/pactumhq/pactum-backend/internal/http/middleware"
	"github.com/pactumhq/pactum-backend/internal/observability"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, svcs Services) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:             log,
		ActorMiddleware: httpMW.ResolveActor(svcs.User),
		MetricsHandler:  observability.Handler(),
		ContractHandler: handlers.Contract,
		TemplateHandler: handlers.Template,
		UserHandler:     handlers.User,
		HealthHandler:   handlers.Health,
	})
}
