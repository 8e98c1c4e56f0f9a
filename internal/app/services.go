package app

import (
	"github.com/pactumhq/pactum-backend/internal/observability"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/services"
	"github.com/pactumhq/pactum-backend/internal/store"
)

type Services struct {
	Activity services.ActivityService
	Contract services.ContractService
	Template services.TemplateService
	User     services.UserService
	File     services.FileService
}

func wireServices(log *logger.Logger, st store.Store, clients Clients, recorder *observability.Recorder) Services {
	log.Info("Wiring services...")
	activity := services.NewActivityService(st, log, recorder)
	return Services{
		Activity: activity,
		Contract: services.NewContractService(st, log, activity, clients.Cache),
		Template: services.NewTemplateService(st, log),
		User:     services.NewUserService(st, log),
		File:     services.NewFileService(log, clients.Bucket),
	}
}
