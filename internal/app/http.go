package app

import (
	apphttp "github.com/yungbote/clientcontacts-backend/internal/http"
	httpH "github.com/yungbote/clientcontacts-backend/internal/http/handlers"
	"github.com/yungbote/clientcontacts-backend/internal/modules/crm"
	"github.com/yungbote/clientcontacts-backend/internal/observability"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Client  *httpH.ClientHandler
	Contact *httpH.ContactHandler
}

func wireHandlers(log *logger.Logger, uc crm.Usecases, health map[string]httpH.HealthCheckFunc) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(health),
		Client:  httpH.NewClientHandler(uc),
		Contact: httpH.NewContactHandler(uc),
	}
}

func wireServer(cfg Config, log *logger.Logger, uc crm.Usecases, health map[string]httpH.HealthCheckFunc, metrics *observability.Metrics) *apphttp.Server {
	handlers := wireHandlers(log, uc, health)
	routerCfg := apphttp.RouterConfig{
		Log:            log.With("component", "http"),
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		ClientHandler:  handlers.Client,
		ContactHandler: handlers.Contact,
		HealthHandler:  handlers.Health,
		Metrics:        metrics,
	}
	if cfg.Otel.Enabled {
		routerCfg.ServiceName = cfg.Otel.ServiceName
	}
	return apphttp.NewServer(cfg.HTTP.Addr, routerCfg)
}
