package listing

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/cluckmap/shop-server/internal/api/schema"
	"github.com/cluckmap/shop-server/internal/api/validation"
	"github.com/cluckmap/shop-server/internal/shop"
	"github.com/go-chi/chi/v5"
)

// EndpointGetShops handles the 'GET /v1/shops?page={number?:1}&query={string?}&lat={number?}&lng={number?}' endpoint.
// The 'lat' and 'lng' parameters have to be given as a pair; providing one
// without the other is rejected.
func (service *Service) EndpointGetShops(writer http.ResponseWriter, request *http.Request) {
	var validationErrs []*schema.Error

	query := strings.TrimSpace(request.URL.Query().Get("query"))

	page, validationErr := validation.QueryNumber(request, "page", false, 1, 1, math.MaxInt32)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	lat, latGiven, validationErr := validation.QueryFloat(request, "lat", false, -90, 90)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	lng, lngGiven, validationErr := validation.QueryFloat(request, "lng", false, -180, 180)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	if latGiven != lngGiven {
		missing := "lat"
		if latGiven {
			missing = "lng"
		}
		validationErrs = append(validationErrs, &schema.Error{
			Type:    "validation.query.parameter.missing",
			Message: "The query parameters 'lat' and 'lng' have to be given as a pair.",
			Details: map[string]interface{}{
				"parameter": missing,
			},
		})
	}

	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	var location *shop.Location
	if latGiven && lngGiven {
		location = &shop.Location{
			Latitude:  lat,
			Longitude: lng,
		}
	}

	data, err := service.Shops.List(request.Context(), int(page), query, location)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	service.writer.WriteJSON(writer, schema.BuildShopListResponse(data))
}

// EndpointGetShop handles the 'GET /v1/shops/{id}' endpoint
func (service *Service) EndpointGetShop(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	obj, err := service.Shops.Shops.GetByID(request.Context(), id)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if obj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	service.writer.WriteJSON(writer, obj)
}
