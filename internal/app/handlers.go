package app

import (
	httpH "github.com/pactumhq/pactum-backend/internal/http/handlers"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/store"
)

type Handlers struct {
	Contract *httpH.ContractHandler
	Template *httpH.TemplateHandler
	User     *httpH.UserHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, svcs Services, st store.Store, mirrored *store.MirroredStore) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Contract: httpH.NewContractHandler(svcs.Contract, svcs.Activity, svcs.File),
		Template: httpH.NewTemplateHandler(svcs.Template, svcs.File),
		User:     httpH.NewUserHandler(svcs.User),
		Health:   httpH.NewHealthHandler(st.Name(), mirrored),
	}
}
