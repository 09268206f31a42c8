package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"ams-gateway/internal/domains/inventory/service"
	"ams-gateway/internal/shared/middleware"
	"ams-gateway/internal/shared/response"
	"ams-gateway/internal/upstream"
)

type Handler struct {
	service *service.Service
}

// NewHandler creates a new inventory handler
func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// ItemInstances handles GET /inventory/item-instances
func (h *Handler) ItemInstances(c *gin.Context) {
	storeID, itemID, ok := storeItemParams(c)
	if !ok {
		return
	}

	instances, err := h.service.ItemInstances(c.Request.Context(), middleware.AuthToken(c), storeID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, instances)
}

// ItemBatches handles GET /inventory/item-batches
func (h *Handler) ItemBatches(c *gin.Context) {
	storeID, itemID, ok := storeItemParams(c)
	if !ok {
		return
	}

	batches, err := h.service.ItemBatches(c.Request.Context(), middleware.AuthToken(c), storeID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, batches)
}

// ConsumableStock handles GET /inventory/consumable-stock
func (h *Handler) ConsumableStock(c *gin.Context) {
	storeID, itemID, ok := storeItemParams(c)
	if !ok {
		return
	}

	stock, err := h.service.ConsumableStock(c.Request.Context(), middleware.AuthToken(c), storeID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stock)
}

// LocationInventory handles GET /inventory/location-inventory
func (h *Handler) LocationInventory(c *gin.Context) {
	query := url.Values{}
	for _, key := range []string{"page", "location", "store", "item", "search"} {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}

	list, err := h.service.LocationInventory(c.Request.Context(), middleware.AuthToken(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list.Results, &response.Meta{Total: list.Count})
}

func storeItemParams(c *gin.Context) (int64, int64, bool) {
	storeID, err := strconv.ParseInt(c.Query("store"), 10, 64)
	if err != nil {
		response.BadRequest(c, "store must be a store ID")
		return 0, 0, false
	}
	itemID, err := strconv.ParseInt(c.Query("item"), 10, 64)
	if err != nil {
		response.BadRequest(c, "item must be an item ID")
		return 0, 0, false
	}
	return storeID, itemID, true
}

func respondError(c *gin.Context, err error) {
	if apiErr, ok := upstream.AsAPIError(err); ok {
		status := apiErr.StatusCode
		if status >= 500 {
			status = http.StatusBadGateway
		}
		response.ErrorResponse(c, status, "UPSTREAM_REJECTED", apiErr.Message)
		return
	}
	response.BadGateway(c, "Inventory platform is unreachable, please retry")
}
