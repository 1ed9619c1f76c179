package api

import (
	"errors"
	"net/http"

	"github.com/cluckmap/shop-server/internal/api/listing"
	"github.com/cluckmap/shop-server/internal/config"
	"github.com/cluckmap/shop-server/internal/shop"
)

// Service represents the listing API service
type Service struct {
	Config  *config.Config
	Shops   *shop.Service
	listing *listing.Service
}

// Startup starts up the listing API
func (service *Service) Startup(errs chan<- error) {
	listingService := &listing.Service{
		Config: service.Config,
		Shops:  service.Shops,
	}
	service.listing = listingService
	go func() {
		if err := listingService.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
}

// Shutdown shuts down the listing API
func (service *Service) Shutdown() {
	if service.listing != nil {
		service.listing.Shutdown()
		service.listing = nil
	}
}
