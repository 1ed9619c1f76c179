package listing

import (
	"net/http"
	"time"

	"github.com/cluckmap/shop-server/internal/api/schema"
	"github.com/cluckmap/shop-server/internal/config"
	"github.com/cluckmap/shop-server/internal/function"
	"github.com/cluckmap/shop-server/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Service represents the shop listing API service
type Service struct {
	server *http.Server

	Config *config.Config
	Shops  *shop.Service

	writer *schema.Writer
}

// Startup starts up the listing API
func (service *Service) Startup() error {
	server := &http.Server{
		Addr:    service.Config.APIListenAddress,
		Handler: service.buildRouter(),
	}
	service.server = server
	return server.ListenAndServe()
}

// Shutdown shuts down the listing API
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}

func (service *Service) buildRouter() chi.Router {
	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the listing API experienced an unexpected error")
		},
	}

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://*", "https://*"},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
	})

	// Register the API endpoint handlers
	service.registerEndpoints(router)

	return router
}

func (service *Service) registerEndpoints(router chi.Router) {
	// Register the shop controller endpoints
	router.Get("/v1/shops", function.Nest[http.HandlerFunc](
		service.EndpointGetShops,
		service.MiddlewareLogRequests,
	))
	router.Get("/v1/shops/{id}", function.Nest[http.HandlerFunc](
		service.EndpointGetShop,
		service.MiddlewareLogRequests,
	))
}

// MiddlewareLogRequests logs every handled request at debug level
func (service *Service) MiddlewareLogRequests(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		next(writer, request)
		log.Debug().
			Str("method", request.Method).
			Str("path", request.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("handled listing API request")
	}
}
