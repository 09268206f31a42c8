package upstream

import (
	"context"
	"fmt"
	"net/url"

	locmodel "ams-gateway/internal/domains/location/model"
	"ams-gateway/internal/domains/request/model"
)

// RequestScope selects one of the platform's request listing endpoints.
type RequestScope string

const (
	ScopeAll      RequestScope = ""
	ScopeOutgoing RequestScope = "outgoing"
	ScopeIncoming RequestScope = "incoming"
	ScopePending  RequestScope = "pending"
)

// ListRequests lists inter-store requests in the given scope.
func (c *Client) ListRequests(ctx context.Context, auth string, scope RequestScope, query url.Values) (List[model.InterStoreRequest], error) {
	path := "/inter-store-requests/"
	if scope != ScopeAll {
		path += string(scope) + "/"
	}
	return getList[model.InterStoreRequest](ctx, c, auth, path, query)
}

// GetRequest fetches one request with its items.
func (c *Client) GetRequest(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error) {
	var req model.InterStoreRequest
	if err := c.get(ctx, auth, fmt.Sprintf("/inter-store-requests/%d/", id), nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateRequest submits the creation form in one call.
func (c *Client) CreateRequest(ctx context.Context, auth string, in model.CreateRequestInput) (*model.InterStoreRequest, error) {
	var req model.InterStoreRequest
	if err := c.post(ctx, auth, "/inter-store-requests/", in, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ValidFulfillingStores returns the platform-computed stores a request
// from the given store may be fulfilled by. Internal vs upward options are
// the platform's call.
func (c *Client) ValidFulfillingStores(ctx context.Context, auth string, requestingStoreID int64) ([]locmodel.Store, error) {
	query := url.Values{}
	query.Set("requesting_store", fmt.Sprintf("%d", requestingStoreID))

	list, err := getList[locmodel.Store](ctx, c, auth, "/inter-store-requests/valid_fulfilling_stores/", query)
	if err != nil {
		return nil, err
	}
	return list.Results, nil
}

// StartProcessing moves a PENDING request into PROCESSING.
func (c *Client) StartProcessing(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error) {
	return c.requestAction(ctx, auth, id, "start_processing", nil)
}

// MarkAvailability submits the full per-line availability batch. The
// result reports auto_rejected when the platform rejected the whole
// request because every line was unavailable.
func (c *Client) MarkAvailability(ctx context.Context, auth string, id int64, items []model.AvailabilityItemPayload) (*model.MarkAvailabilityResult, error) {
	body := map[string]interface{}{"items": items}

	var result model.MarkAvailabilityResult
	path := fmt.Sprintf("/inter-store-requests/%d/mark_availability/", id)
	if err := c.post(ctx, auth, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ContinueToDispatch confirms the availability review and opens dispatch.
func (c *Client) ContinueToDispatch(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error) {
	return c.requestAction(ctx, auth, id, "continue_to_dispatch", nil)
}

// DispatchItems submits the built allocations as one dispatch call.
func (c *Client) DispatchItems(ctx context.Context, auth string, id int64, items []model.DispatchItemPayload) (*model.InterStoreRequest, error) {
	return c.requestAction(ctx, auth, id, "dispatch_items", map[string]interface{}{"items": items})
}

// AcknowledgeRequest acknowledges a dispatched request. Kept behind the
// gate policy; the default policy never offers it.
func (c *Client) AcknowledgeRequest(ctx context.Context, auth string, id int64, remarks string) (*model.InterStoreRequest, error) {
	return c.requestAction(ctx, auth, id, "acknowledge", map[string]interface{}{"remarks": remarks})
}

// CancelRequest cancels a DRAFT or PENDING request.
func (c *Client) CancelRequest(ctx context.Context, auth string, id int64, reason string) (*model.InterStoreRequest, error) {
	return c.requestAction(ctx, auth, id, "cancel", map[string]interface{}{"reason": reason})
}

func (c *Client) requestAction(ctx context.Context, auth string, id int64, action string, body interface{}) (*model.InterStoreRequest, error) {
	var req model.InterStoreRequest
	path := fmt.Sprintf("/inter-store-requests/%d/%s/", id, action)
	if err := c.post(ctx, auth, path, body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
