package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"ams-gateway/internal/domains/stockentry"
	"ams-gateway/internal/domains/stockentry/model"
	"ams-gateway/internal/domains/stockentry/service"
	"ams-gateway/internal/shared/middleware"
	"ams-gateway/internal/shared/response"
	"ams-gateway/internal/upstream"
)

type Handler struct {
	service *service.Service
}

// NewHandler creates a new stock entry handler
func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /stock-entries
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), middleware.AuthToken(c), listQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list.Results, &response.Meta{Total: list.Count})
}

// MyEntries handles GET /stock-entries/my-entries
func (h *Handler) MyEntries(c *gin.Context) {
	list, err := h.service.MyEntries(c.Request.Context(), middleware.AuthToken(c), listQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list.Results, &response.Meta{Total: list.Count})
}

// Get handles GET /stock-entries/:id
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

// CreateOptions handles GET /stock-entries/create-options
func (h *Handler) CreateOptions(c *gin.Context) {
	opts, err := h.service.CreateOptions(c.Request.Context(), middleware.AuthToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, opts)
}

// ItemStock handles GET /stock-entries/item-stock
func (h *Handler) ItemStock(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Query("store"), 10, 64)
	if err != nil {
		response.BadRequest(c, "store must be a store ID")
		return
	}
	itemID, err := strconv.ParseInt(c.Query("item"), 10, 64)
	if err != nil {
		response.BadRequest(c, "item must be an item ID")
		return
	}

	stock, svcErr := h.service.ItemStock(c.Request.Context(), middleware.AuthToken(c), storeID, itemID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	response.Success(c, http.StatusOK, stock)
}

// Create handles POST /stock-entries
func (h *Handler) Create(c *gin.Context) {
	var in model.CreateStockEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	entry, err := h.service.Create(c.Request.Context(), middleware.AuthToken(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

// Cancel handles POST /stock-entries/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	entry, err := h.service.Cancel(c.Request.Context(), middleware.AuthToken(c), id, middleware.StoreCodes(c), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}

// =====================================================
// ACKNOWLEDGMENT SUB-FLOW
// =====================================================

// AckSession handles GET /stock-entries/:id/acknowledge
func (h *Handler) AckSession(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sess, err := h.service.AckSession(c.Request.Context(),
		middleware.AuthToken(c), middleware.UserID(c), id, middleware.StoreCodes(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SetAccepted handles PUT /stock-entries/:id/acknowledge/accepted
func (h *Handler) SetAccepted(c *gin.Context) {
	h.setQuantity(c, h.service.SetAccepted)
}

// SetRejected handles PUT /stock-entries/:id/acknowledge/rejected
func (h *Handler) SetRejected(c *gin.Context) {
	h.setQuantity(c, h.service.SetRejected)
}

// AcceptInstance handles POST /stock-entries/:id/acknowledge/instances/:instanceID/accept
func (h *Handler) AcceptInstance(c *gin.Context) {
	h.classifyInstance(c, h.service.AcceptInstance)
}

// RejectInstance handles POST /stock-entries/:id/acknowledge/instances/:instanceID/reject
func (h *Handler) RejectInstance(c *gin.Context) {
	h.classifyInstance(c, h.service.RejectInstance)
}

// SetReason handles PUT /stock-entries/:id/acknowledge/reason
func (h *Handler) SetReason(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	sess, err := h.service.SetReason(c.Request.Context(), middleware.UserID(c), id, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SubmitAck handles POST /stock-entries/:id/acknowledge/submit
func (h *Handler) SubmitAck(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.SubmitAck(c.Request.Context(),
		middleware.AuthToken(c), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// AcknowledgeReturn handles POST /stock-entries/:id/acknowledge-return
func (h *Handler) AcknowledgeReturn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.AcknowledgeReturn(c.Request.Context(),
		middleware.AuthToken(c), id, middleware.StoreCodes(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// =====================================================
// HELPERS
// =====================================================

func (h *Handler) setQuantity(c *gin.Context, set func(ctx context.Context, userID string, id int64, q decimal.Decimal) (*stockentry.AckSession, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	sess, err := set(c.Request.Context(), middleware.UserID(c), id, body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

func (h *Handler) classifyInstance(c *gin.Context, classify func(ctx context.Context, userID string, id, instanceID int64) (*stockentry.AckSession, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	instanceID, ok := paramID(c, "instanceID")
	if !ok {
		return
	}

	sess, err := classify(c.Request.Context(), middleware.UserID(c), id, instanceID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// listQuery forwards the filters the platform's entry listing supports.
// Anything else on the query string is dropped, never proxied blindly.
func listQuery(c *gin.Context) url.Values {
	query := url.Values{}
	for _, key := range []string{"page", "status", "entry_type", "store", "search"} {
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

// respondError maps domain and upstream errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", vErrs)
	case errors.Is(err, model.ErrNoSession):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrActionNotAllowed),
		errors.Is(err, model.ErrNotPendingAck),
		errors.Is(err, model.ErrNotReturnEntry):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrNonPositiveQuantity),
		errors.Is(err, model.ErrInstanceCountMismatch),
		errors.Is(err, model.ErrBatchSumMismatch),
		errors.Is(err, model.ErrSameLocation),
		errors.Is(err, model.ErrTemporaryFieldsRequired),
		errors.Is(err, model.ErrTemporaryOnlyForIssue),
		errors.Is(err, model.ErrInvalidSource),
		errors.Is(err, model.ErrExceedsAvailability),
		errors.Is(err, model.ErrNothingClassified),
		errors.Is(err, model.ErrReasonRequired),
		errors.Is(err, model.ErrUnknownInstance):
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
