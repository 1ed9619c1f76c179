package schema

import (
	"github.com/cluckmap/shop-server/internal/pagination"
	"github.com/cluckmap/shop-server/internal/shop"
)

// ShopListResponse represents the unified response of the shop listing endpoint
type ShopListResponse struct {
	Shops      []*shop.Shop       `json:"shops"`
	Pagination pagination.State   `json:"pagination"`
	PageLabels []pagination.Label `json:"page_labels,omitempty"`
}

// BuildShopListResponse builds a unified shop listing response.
// The page label strip is only included when there is more than one page.
func BuildShopListResponse(data *shop.ListData) *ShopListResponse {
	shops := data.Shops
	if shops == nil {
		shops = []*shop.Shop{}
	}
	response := &ShopListResponse{
		Shops:      shops,
		Pagination: data.Pagination,
	}
	if data.Pagination.TotalPages > 1 {
		response.PageLabels = pagination.Labels(data.Pagination)
	}
	return response
}
