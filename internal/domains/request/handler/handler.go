package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"ams-gateway/internal/domains/request/model"
	"ams-gateway/internal/domains/request/service"
	"ams-gateway/internal/shared/middleware"
	"ams-gateway/internal/shared/response"
	"ams-gateway/internal/upstream"
)

type Handler struct {
	service *service.Service
}

// NewHandler creates a new inter-store request handler
func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /inter-store-requests (+ /outgoing, /incoming, /pending)
func (h *Handler) List(scope upstream.RequestScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := h.service.List(c.Request.Context(), middleware.AuthToken(c), scope, listQuery(c))
		if err != nil {
			respondError(c, err)
			return
		}
		response.SuccessWithMeta(c, http.StatusOK, list.Results, &response.Meta{Total: list.Count})
	}
}

// Get handles GET /inter-store-requests/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), middleware.AuthToken(c), id, middleware.StoreCodes(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Create handles POST /inter-store-requests
func (h *Handler) Create(c *gin.Context) {
	var in model.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	req, err := h.service.Create(c.Request.Context(), middleware.AuthToken(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, req)
}

// ValidFulfillingStores handles GET /inter-store-requests/valid-fulfilling-stores
func (h *Handler) ValidFulfillingStores(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Query("requesting_store"), 10, 64)
	if err != nil {
		response.BadRequest(c, "requesting_store must be a store ID")
		return
	}

	stores, svcErr := h.service.ValidFulfillingStores(c.Request.Context(), middleware.AuthToken(c), storeID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	response.Success(c, http.StatusOK, stores)
}

// StartProcessing handles POST /inter-store-requests/:id/start-processing
func (h *Handler) StartProcessing(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	req, err := h.service.StartProcessing(c.Request.Context(), middleware.AuthToken(c), id, middleware.StoreCodes(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, req)
}

// Cancel handles POST /inter-store-requests/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	req, err := h.service.Cancel(c.Request.Context(), middleware.AuthToken(c), id, middleware.StoreCodes(c), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, req)
}

// Acknowledge handles POST /inter-store-requests/:id/acknowledge. The
// route exists for deployments that still run the request-level
// acknowledgment; the default gate policy rejects it.
func (h *Handler) Acknowledge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Remarks string `json:"remarks"`
	}
	_ = c.ShouldBindJSON(&body)

	req, err := h.service.Acknowledge(c.Request.Context(), middleware.AuthToken(c), id, middleware.StoreCodes(c), body.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, req)
}

// =====================================================
// AVAILABILITY SUB-FLOW
// =====================================================

// AvailabilitySession handles GET /inter-store-requests/:id/availability
func (h *Handler) AvailabilitySession(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sess, err := h.service.AvailabilitySession(c.Request.Context(),
		middleware.AuthToken(c), middleware.UserID(c), id, middleware.StoreCodes(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SetAvailability handles PUT /inter-store-requests/:id/availability/items/:itemID
func (h *Handler) SetAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return
	}

	var body struct {
		IsAvailable          bool   `json:"is_available"`
		UnavailabilityReason string `json:"unavailability_reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	sess, err := h.service.SetAvailability(c.Request.Context(),
		middleware.UserID(c), id, itemID, body.IsAvailable, body.UnavailabilityReason)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SubmitAvailability handles POST /inter-store-requests/:id/availability/submit
func (h *Handler) SubmitAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.SubmitAvailability(c.Request.Context(),
		middleware.AuthToken(c), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// =====================================================
// DISPATCH SUB-FLOW
// =====================================================

// EnterDispatch handles POST /inter-store-requests/:id/dispatch
func (h *Handler) EnterDispatch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sess, err := h.service.EnterDispatch(c.Request.Context(),
		middleware.AuthToken(c), middleware.UserID(c), id, middleware.StoreCodes(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// DispatchSession handles GET /inter-store-requests/:id/dispatch
func (h *Handler) DispatchSession(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sess, err := h.service.DispatchSession(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// QuickSelect handles POST /inter-store-requests/:id/dispatch/items/:itemID/quick-select
func (h *Handler) QuickSelect(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	sess, err := h.service.QuickSelect(c.Request.Context(), middleware.UserID(c), id, itemID, body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// ToggleInstance handles POST /inter-store-requests/:id/dispatch/items/:itemID/instances/:instanceID/toggle
func (h *Handler) ToggleInstance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return
	}
	instanceID, ok := paramID(c, "instanceID")
	if !ok {
		return
	}

	sess, err := h.service.ToggleInstance(c.Request.Context(), middleware.UserID(c), id, itemID, instanceID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SetBatchQuantity handles PUT /inter-store-requests/:id/dispatch/items/:itemID/batches/:batchID
func (h *Handler) SetBatchQuantity(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return
	}
	batchID, ok := paramID(c, "batchID")
	if !ok {
		return
	}

	body, ok := bindQuantity(c)
	if !ok {
		return
	}

	sess, err := h.service.SetBatchQuantity(c.Request.Context(), middleware.UserID(c), id, itemID, batchID, body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SetBulkQuantity handles PUT /inter-store-requests/:id/dispatch/items/:itemID/quantity
func (h *Handler) SetBulkQuantity(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return
	}

	body, ok := bindQuantity(c)
	if !ok {
		return
	}

	sess, err := h.service.SetBulkQuantity(c.Request.Context(), middleware.UserID(c), id, itemID, body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SubmitDispatch handles POST /inter-store-requests/:id/dispatch/submit
func (h *Handler) SubmitDispatch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	req, err := h.service.SubmitDispatch(c.Request.Context(),
		middleware.AuthToken(c), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, req)
}

// =====================================================
// HELPERS
// =====================================================

// listQuery forwards the filters the platform's request listing supports.
// Anything else on the query string is dropped, never proxied blindly.
func listQuery(c *gin.Context) url.Values {
	query := url.Values{}
	for _, key := range []string{"page", "status", "priority", "search"} {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}
	return query
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

func bindQuantity(c *gin.Context) (decimal.Decimal, bool) {
	var body struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return decimal.Zero, false
	}
	return body.Quantity, true
}

// respondError maps domain and upstream errors onto HTTP responses. An
// upstream rejection keeps its own status and normalized message; a
// transport failure to the platform is a 502, never silently retried.
func respondError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", vErrs)
	case errors.Is(err, model.ErrNoSession):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrActionNotAllowed):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrUnknownItem),
		errors.Is(err, model.ErrUnknownInstance),
		errors.Is(err, model.ErrUnknownBatch),
		errors.Is(err, model.ErrTrackingMismatch),
		errors.Is(err, model.ErrEmptyDispatch),
		errors.Is(err, model.ErrReasonRequired),
		errors.Is(err, model.ErrSameStore),
		errors.Is(err, model.ErrNonPositiveQuantity):
		response.BadRequest(c, err.Error())
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
