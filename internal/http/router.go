package http

import (
	"errors"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/clientcontacts-backend/internal/http/handlers"
	httpMW "github.com/yungbote/clientcontacts-backend/internal/http/middleware"
	"github.com/yungbote/clientcontacts-backend/internal/http/response"
	"github.com/yungbote/clientcontacts-backend/internal/observability"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// Metrics enables request instrumentation and GET /metrics when set.
	Metrics     *observability.Metrics

	ClientHandler  *httpH.ClientHandler
	ContactHandler *httpH.ContactHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestID())
	r.Use(httpMW.AccessLog(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, stdhttp.StatusNotFound, "not_found", errors.New("route not found"))
	})

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Clients
		if cfg.ClientHandler != nil {
			api.GET("/clients", cfg.ClientHandler.ListClients)
			api.POST("/clients", cfg.ClientHandler.CreateClient)
			api.GET("/clients/:id", cfg.ClientHandler.GetClient)
			api.POST("/clients/:id/contacts", cfg.ClientHandler.LinkContact)
			api.DELETE("/clients/:id/contacts/:contactId", cfg.ClientHandler.UnlinkContact)
		}

		// Contacts
		if cfg.ContactHandler != nil {
			api.GET("/contacts", cfg.ContactHandler.ListContacts)
			api.POST("/contacts", cfg.ContactHandler.CreateContact)
			api.GET("/contacts/:id", cfg.ContactHandler.GetContact)
			api.POST("/contacts/:id/clients", cfg.ContactHandler.LinkClient)
			api.DELETE("/contacts/:id/clients/:clientId", cfg.ContactHandler.UnlinkClient)
		}
	}

	return r
}
