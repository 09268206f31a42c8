package service

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	locmodel "ams-gateway/internal/domains/location/model"
	"ams-gateway/internal/domains/request"
	"ams-gateway/internal/domains/request/model"
	"ams-gateway/internal/session"
	"ams-gateway/internal/upstream"
)

func boolPtr(b bool) *bool { return &b }

// fakeAPI is a hand-rolled platform stub. Responses are keyed per call;
// zero-value fields mean "not expected in this test".
type fakeAPI struct {
	request     *model.InterStoreRequest
	markResult  *model.MarkAvailabilityResult
	markErr     error
	markCalls   int32
	dispatchErr error
	dispatched  []model.DispatchItemPayload

	stock    map[int64]*upstream.ItemStock
	stockErr map[int64]error
}

func (f *fakeAPI) ListRequests(ctx context.Context, auth string, scope upstream.RequestScope, query url.Values) (upstream.List[model.InterStoreRequest], error) {
	return upstream.List[model.InterStoreRequest]{Results: []model.InterStoreRequest{*f.request}, Count: 1}, nil
}

func (f *fakeAPI) GetRequest(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error) {
	out := *f.request
	return &out, nil
}

func (f *fakeAPI) CreateRequest(ctx context.Context, auth string, in model.CreateRequestInput) (*model.InterStoreRequest, error) {
	return f.request, nil
}

func (f *fakeAPI) ValidFulfillingStores(ctx context.Context, auth string, requestingStoreID int64) ([]locmodel.Store, error) {
	return nil, nil
}

func (f *fakeAPI) StartProcessing(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error) {
	out := *f.request
	out.Status = model.StatusProcessing
	return &out, nil
}

func (f *fakeAPI) MarkAvailability(ctx context.Context, auth string, id int64, items []model.AvailabilityItemPayload) (*model.MarkAvailabilityResult, error) {
	atomic.AddInt32(&f.markCalls, 1)
	if f.markErr != nil {
		return nil, f.markErr
	}
	return f.markResult, nil
}

func (f *fakeAPI) ContinueToDispatch(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error) {
	out := *f.request
	return &out, nil
}

func (f *fakeAPI) DispatchItems(ctx context.Context, auth string, id int64, items []model.DispatchItemPayload) (*model.InterStoreRequest, error) {
	if f.dispatchErr != nil {
		return nil, f.dispatchErr
	}
	f.dispatched = items
	out := *f.request
	out.Status = model.StatusDispatched
	return &out, nil
}

func (f *fakeAPI) CancelRequest(ctx context.Context, auth string, id int64, reason string) (*model.InterStoreRequest, error) {
	out := *f.request
	out.Status = model.StatusCancelled
	return &out, nil
}

func (f *fakeAPI) AcknowledgeRequest(ctx context.Context, auth string, id int64, remarks string) (*model.InterStoreRequest, error) {
	out := *f.request
	out.Status = model.StatusAcknowledged
	return &out, nil
}

func (f *fakeAPI) ItemStock(ctx context.Context, auth string, storeID, itemID int64) (*upstream.ItemStock, error) {
	if err, ok := f.stockErr[itemID]; ok {
		return nil, err
	}
	if stock, ok := f.stock[itemID]; ok {
		return stock, nil
	}
	return &upstream.ItemStock{}, nil
}

func processingRequest() *model.InterStoreRequest {
	return &model.InterStoreRequest{
		ID:              42,
		Status:          model.StatusProcessing,
		RequestingStore: locmodel.Ref{ID: 10, Code: "ST-REQ"},
		FulfillingStore: locmodel.Ref{ID: 20, Code: "ST-FUL"},
		Items: []model.RequestItem{
			{ItemID: 1, TrackingType: model.TrackingBulk, RequestedQuantity: decimal.NewFromInt(10), IsAvailable: boolPtr(true)},
			{ItemID: 2, TrackingType: model.TrackingBulk, RequestedQuantity: decimal.NewFromInt(5), IsAvailable: boolPtr(true)},
			{ItemID: 3, TrackingType: model.TrackingBulk, RequestedQuantity: decimal.NewFromInt(3), IsAvailable: boolPtr(true)},
		},
	}
}

func newTestService(api *fakeAPI) *Service {
	return NewService(api, session.NewMemoryStore(), time.Minute, request.DefaultGatePolicy)
}

const fulfillerUser = "user-1"

var fulfillerStores = []string{"ST-FUL"}

func TestAvailabilityFlow_SubmitConsumesSession(t *testing.T) {
	api := &fakeAPI{
		request:    processingRequest(),
		markResult: &model.MarkAvailabilityResult{Message: "ok"},
	}
	svc := newTestService(api)
	ctx := context.Background()

	sess, err := svc.AvailabilitySession(ctx, "token", fulfillerUser, 42, fulfillerStores)
	require.NoError(t, err)
	require.Len(t, sess.Decisions, 3)

	_, err = svc.SetAvailability(ctx, fulfillerUser, 42, 2, false, "Out of stock")
	require.NoError(t, err)

	result, err := svc.SubmitAvailability(ctx, "token", fulfillerUser, 42)
	require.NoError(t, err)
	assert.False(t, result.AutoRejected)

	// First-wins: the consumed session cannot be submitted again.
	_, err = svc.SubmitAvailability(ctx, "token", fulfillerUser, 42)
	assert.ErrorIs(t, err, model.ErrNoSession)
	assert.Equal(t, int32(1), api.markCalls)
}

func TestAvailabilityFlow_RestoredOnUpstreamRejection(t *testing.T) {
	api := &fakeAPI{
		request: processingRequest(),
		markErr: &upstream.APIError{StatusCode: 400, Message: "item 2: no longer stocked"},
	}
	svc := newTestService(api)
	ctx := context.Background()

	_, err := svc.AvailabilitySession(ctx, "token", fulfillerUser, 42, fulfillerStores)
	require.NoError(t, err)

	_, err = svc.SubmitAvailability(ctx, "token", fulfillerUser, 42)
	require.Error(t, err)

	// The working set survives the rejection for correction and retry.
	_, err = svc.SetAvailability(ctx, fulfillerUser, 42, 2, false, "No longer stocked")
	assert.NoError(t, err)
}

func TestAvailabilityFlow_GateChecked(t *testing.T) {
	req := processingRequest()
	req.Status = model.StatusPending
	svc := newTestService(&fakeAPI{request: req})

	_, err := svc.AvailabilitySession(context.Background(), "token", fulfillerUser, 42, fulfillerStores)
	assert.ErrorIs(t, err, model.ErrActionNotAllowed)
}

func TestEnterDispatch_PartialSnapshotFailure(t *testing.T) {
	api := &fakeAPI{
		request: processingRequest(),
		stock: map[int64]*upstream.ItemStock{
			1: {AvailableQuantity: decimal.NewFromInt(8)},
			3: {AvailableQuantity: decimal.NewFromInt(3)},
		},
		stockErr: map[int64]error{
			2: &upstream.APIError{StatusCode: 500, Message: "stock service down"},
		},
	}
	svc := newTestService(api)

	sess, err := svc.EnterDispatch(context.Background(), "token", fulfillerUser, 42, fulfillerStores)
	require.NoError(t, err, "one line's failure must not abort dispatch entry")

	require.Equal(t, []int64{1, 2, 3}, sess.ItemOrder)
	assert.True(t, decimal.NewFromInt(8).Equal(sess.Snapshots[1].Quantity))
	assert.True(t, decimal.NewFromInt(3).Equal(sess.Snapshots[3].Quantity))

	failed := sess.Snapshots[2]
	assert.True(t, failed.Quantity.IsZero())
	assert.Equal(t, "stock service down", failed.FetchError)
}

func TestEnterDispatch_ReentryBumpsGeneration(t *testing.T) {
	api := &fakeAPI{request: processingRequest()}
	svc := newTestService(api)
	ctx := context.Background()

	first, err := svc.EnterDispatch(ctx, "token", fulfillerUser, 42, fulfillerStores)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Generation)

	second, err := svc.EnterDispatch(ctx, "token", fulfillerUser, 42, fulfillerStores)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Generation)
	assert.NotEqual(t, first.ID, second.ID, "re-entry replaces the working set")
}

func TestSubmitDispatch_FirstWinsAndRestore(t *testing.T) {
	api := &fakeAPI{
		request: processingRequest(),
		stock: map[int64]*upstream.ItemStock{
			1: {AvailableQuantity: decimal.NewFromInt(8)},
		},
	}
	svc := newTestService(api)
	ctx := context.Background()

	_, err := svc.EnterDispatch(ctx, "token", fulfillerUser, 42, fulfillerStores)
	require.NoError(t, err)

	// An empty selection is rejected locally and the session is restored.
	_, err = svc.SubmitDispatch(ctx, "token", fulfillerUser, 42)
	assert.ErrorIs(t, err, model.ErrEmptyDispatch)

	_, err = svc.SetBulkQuantity(ctx, fulfillerUser, 42, 1, decimal.NewFromInt(8))
	require.NoError(t, err)

	req, err := svc.SubmitDispatch(ctx, "token", fulfillerUser, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDispatched, req.Status)
	require.Len(t, api.dispatched, 1)
	assert.Equal(t, int64(1), api.dispatched[0].ItemID)

	_, err = svc.SubmitDispatch(ctx, "token", fulfillerUser, 42)
	assert.ErrorIs(t, err, model.ErrNoSession)
}

func TestStartProcessing_GateEnforced(t *testing.T) {
	req := processingRequest()
	req.Status = model.StatusPending
	svc := newTestService(&fakeAPI{request: req})
	ctx := context.Background()

	_, err := svc.StartProcessing(ctx, "token", 42, []string{"ST-OTHER"})
	assert.ErrorIs(t, err, model.ErrActionNotAllowed)

	got, err := svc.StartProcessing(ctx, "token", 42, fulfillerStores)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, got.Status)
}

func TestAcknowledge_ClosedByDefaultPolicy(t *testing.T) {
	req := processingRequest()
	req.Status = model.StatusDispatched
	api := &fakeAPI{request: req}
	ctx := context.Background()

	svc := newTestService(api)
	_, err := svc.Acknowledge(ctx, "token", 42, []string{"ST-REQ"}, "received")
	assert.ErrorIs(t, err, model.ErrActionNotAllowed)

	legacy := NewService(api, session.NewMemoryStore(), time.Minute, request.GatePolicy{AllowAcknowledge: true})
	got, err := legacy.Acknowledge(ctx, "token", 42, []string{"ST-REQ"}, "received")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAcknowledged, got.Status)
}

func TestCreate_ValidatesLocally(t *testing.T) {
	svc := newTestService(&fakeAPI{request: processingRequest()})

	_, err := svc.Create(context.Background(), "token", model.CreateRequestInput{
		RequestingStoreID: 1,
		FulfillingStoreID: 1,
		Purpose:           "Restock",
		Items: []model.CreateRequestItemInput{
			{ItemID: 9, Quantity: decimal.NewFromInt(1)},
		},
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrNoSession))
}
