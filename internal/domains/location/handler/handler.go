package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"ams-gateway/internal/domains/location/service"
	"ams-gateway/internal/shared/middleware"
	"ams-gateway/internal/shared/response"
	"ams-gateway/internal/upstream"
)

type Handler struct {
	service *service.Service
}

// NewHandler creates a new location handler
func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// Locations handles GET /locations
func (h *Handler) Locations(c *gin.Context) {
	list, err := h.service.Locations(c.Request.Context(), middleware.AuthToken(c), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list.Results, &response.Meta{Total: list.Count})
}

// Stores handles GET /locations/stores
func (h *Handler) Stores(c *gin.Context) {
	list, err := h.service.Stores(c.Request.Context(), middleware.AuthToken(c), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list.Results, &response.Meta{Total: list.Count})
}

// MyStores handles GET /locations/my-stores. It resolves the caller's
// store codes from the token into full store records.
func (h *Handler) MyStores(c *gin.Context) {
	stores, err := h.service.AccessibleStores(c.Request.Context(), middleware.AuthToken(c), middleware.StoreCodes(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stores)
}

// ValidSources handles GET /locations/stores/:id/valid-sources
func (h *Handler) ValidSources(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid id parameter")
		return
	}

	stores, svcErr := h.service.ValidSources(c.Request.Context(), middleware.AuthToken(c), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	response.Success(c, http.StatusOK, stores)
}

func pageQuery(c *gin.Context) url.Values {
	query := url.Values{}
	for _, key := range []string{"page", "search", "type"} {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}
	return query
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStoreNotFound):
		response.NotFound(c, err.Error())
	default:
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
}
