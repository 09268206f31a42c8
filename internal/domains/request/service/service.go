package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	locmodel "ams-gateway/internal/domains/location/model"
	"ams-gateway/internal/domains/request"
	"ams-gateway/internal/domains/request/model"
	"ams-gateway/internal/session"
	"ams-gateway/internal/upstream"
)

// UpstreamAPI is the slice of the platform client this service needs.
type UpstreamAPI interface {
	ListRequests(ctx context.Context, auth string, scope upstream.RequestScope, query url.Values) (upstream.List[model.InterStoreRequest], error)
	GetRequest(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error)
	CreateRequest(ctx context.Context, auth string, in model.CreateRequestInput) (*model.InterStoreRequest, error)
	ValidFulfillingStores(ctx context.Context, auth string, requestingStoreID int64) ([]locmodel.Store, error)
	StartProcessing(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error)
	MarkAvailability(ctx context.Context, auth string, id int64, items []model.AvailabilityItemPayload) (*model.MarkAvailabilityResult, error)
	ContinueToDispatch(ctx context.Context, auth string, id int64) (*model.InterStoreRequest, error)
	DispatchItems(ctx context.Context, auth string, id int64, items []model.DispatchItemPayload) (*model.InterStoreRequest, error)
	CancelRequest(ctx context.Context, auth string, id int64, reason string) (*model.InterStoreRequest, error)
	AcknowledgeRequest(ctx context.Context, auth string, id int64, remarks string) (*model.InterStoreRequest, error)
	ItemStock(ctx context.Context, auth string, storeID, itemID int64) (*upstream.ItemStock, error)
}

// Service orchestrates the inter-store request workflows: it computes
// action gates on reads, keeps the availability and dispatch working sets
// in the session store, and forwards submissions upstream.
type Service struct {
	api      UpstreamAPI
	sessions session.Store
	ttl      time.Duration
	policy   request.GatePolicy
}

func NewService(api UpstreamAPI, sessions session.Store, ttl time.Duration, policy request.GatePolicy) *Service {
	return &Service{
		api:      api,
		sessions: sessions,
		ttl:      ttl,
		policy:   policy,
	}
}

// Detail pairs a request with the caller's computed action gates.
type Detail struct {
	Request *model.InterStoreRequest `json:"request"`
	Actions request.Actions          `json:"actions"`
}

// List proxies a request listing.
func (s *Service) List(ctx context.Context, auth string, scope upstream.RequestScope, query url.Values) (upstream.List[model.InterStoreRequest], error) {
	return s.api.ListRequests(ctx, auth, scope, query)
}

// Get fetches one request and computes the caller's action gates.
func (s *Service) Get(ctx context.Context, auth string, id int64, userStores []string) (*Detail, error) {
	req, err := s.api.GetRequest(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Request: req, Actions: s.policy.Gates(req, userStores)}, nil
}

// Create validates the form locally and submits it in one call.
func (s *Service) Create(ctx context.Context, auth string, in model.CreateRequestInput) (*model.InterStoreRequest, error) {
	if in.Priority == "" {
		in.Priority = model.PriorityNormal
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.api.CreateRequest(ctx, auth, in)
}

// ValidFulfillingStores lists the stores a new request may target. The
// platform owns the rule; the gateway only relays it for form rendering.
func (s *Service) ValidFulfillingStores(ctx context.Context, auth string, requestingStoreID int64) ([]locmodel.Store, error) {
	return s.api.ValidFulfillingStores(ctx, auth, requestingStoreID)
}

// StartProcessing moves a PENDING request into PROCESSING. The gate is
// re-checked here as defense in depth; the platform stays authoritative.
func (s *Service) StartProcessing(ctx context.Context, auth string, id int64, userStores []string) (*model.InterStoreRequest, error) {
	req, err := s.api.GetRequest(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Gates(req, userStores).CanStartProcessing {
		return nil, model.ErrActionNotAllowed
	}
	return s.api.StartProcessing(ctx, auth, id)
}

// Cancel cancels a DRAFT or PENDING request.
func (s *Service) Cancel(ctx context.Context, auth string, id int64, userStores []string, reason string) (*model.InterStoreRequest, error) {
	req, err := s.api.GetRequest(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Gates(req, userStores).CanCancel {
		return nil, model.ErrActionNotAllowed
	}
	return s.api.CancelRequest(ctx, auth, id, reason)
}

// Acknowledge confirms receipt on the retired request-level flow. The
// gate stays closed unless the policy re-enables it.
func (s *Service) Acknowledge(ctx context.Context, auth string, id int64, userStores []string, remarks string) (*model.InterStoreRequest, error) {
	req, err := s.api.GetRequest(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Gates(req, userStores).CanAcknowledge {
		return nil, model.ErrActionNotAllowed
	}
	return s.api.AcknowledgeRequest(ctx, auth, id, remarks)
}

// =====================================================
// AVAILABILITY SUB-FLOW
// =====================================================

// AvailabilitySession returns the caller's availability working set for a
// request, seeding a fresh one from the request's lines when none is live.
// The sub-flow may be re-entered while the request stays in PROCESSING.
func (s *Service) AvailabilitySession(ctx context.Context, auth, userID string, id int64, userStores []string) (*request.AvailabilitySession, error) {
	key := availabilityKey(userID, id)

	var existing request.AvailabilitySession
	found, err := s.sessions.Get(ctx, key, &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return &existing, nil
	}

	req, err := s.api.GetRequest(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Gates(req, userStores).CanEditAvailability {
		return nil, model.ErrActionNotAllowed
	}

	sess := request.NewAvailabilitySession(req)
	if err := s.sessions.Set(ctx, key, sess, s.ttl); err != nil {
		return nil, err
	}
	return sess, nil
}

// SetAvailability records one line's decision in the working set.
func (s *Service) SetAvailability(ctx context.Context, userID string, id, itemID int64, available bool, reason string) (*request.AvailabilitySession, error) {
	key := availabilityKey(userID, id)

	var sess request.AvailabilitySession
	found, err := s.sessions.Get(ctx, key, &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrNoSession
	}

	if available {
		err = sess.SetAvailable(itemID)
	} else {
		err = sess.SetUnavailable(itemID, reason)
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, key, &sess, s.ttl); err != nil {
		return nil, err
	}
	return &sess, nil
}

// SubmitAvailability sends the full decision batch upstream. The session
// is consumed first-wins, so a double click cannot submit twice; on an
// upstream rejection the working set is restored for correction.
func (s *Service) SubmitAvailability(ctx context.Context, auth, userID string, id int64) (*model.MarkAvailabilityResult, error) {
	key := availabilityKey(userID, id)

	var sess request.AvailabilitySession
	found, err := s.sessions.GetDel(ctx, key, &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrNoSession
	}

	payload, err := sess.Payload()
	if err != nil {
		s.restore(ctx, key, &sess)
		return nil, err
	}

	result, err := s.api.MarkAvailability(ctx, auth, id, payload)
	if err != nil {
		s.restore(ctx, key, &sess)
		return nil, err
	}

	if result.AutoRejected {
		log.Info().Int64("request_id", id).Msg("request auto-rejected: every line unavailable")
	}
	return result, nil
}

// =====================================================
// DISPATCH SUB-FLOW
// =====================================================

// EnterDispatch opens dispatch mode: it confirms the availability review
// upstream, fetches a fresh stock snapshot for every available line, and
// replaces any previous working set. Snapshots are fetched exactly once
// per entry and never reused across entries.
func (s *Service) EnterDispatch(ctx context.Context, auth, userID string, id int64, userStores []string) (*request.DispatchSession, error) {
	key := dispatchKey(userID, id)

	req, err := s.api.GetRequest(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Gates(req, userStores).CanContinueToDispatch {
		return nil, model.ErrActionNotAllowed
	}

	generation := uint64(1)
	var previous request.DispatchSession
	if found, err := s.sessions.Get(ctx, key, &previous); err == nil && found {
		generation = previous.Generation + 1
	}

	req, err = s.api.ContinueToDispatch(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	snaps := s.fetchSnapshots(ctx, auth, req)
	sess := request.NewDispatchSession(req, generation, snaps)

	// A concurrent re-entry may have produced a newer session while this
	// one was fetching stock; the late result must not clobber it.
	var current request.DispatchSession
	if found, err := s.sessions.Get(ctx, key, &current); err == nil && found && current.Generation >= generation {
		return &current, nil
	}

	if err := s.sessions.Set(ctx, key, sess, s.ttl); err != nil {
		return nil, err
	}
	return sess, nil
}

// DispatchSession returns the live dispatch working set.
func (s *Service) DispatchSession(ctx context.Context, userID string, id int64) (*request.DispatchSession, error) {
	var sess request.DispatchSession
	found, err := s.sessions.Get(ctx, dispatchKey(userID, id), &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrNoSession
	}
	return &sess, nil
}

// QuickSelect selects the first n instances of an INDIVIDUAL line.
func (s *Service) QuickSelect(ctx context.Context, userID string, id, itemID int64, n int) (*request.DispatchSession, error) {
	return s.mutateDispatch(ctx, userID, id, func(sess *request.DispatchSession) error {
		return sess.QuickSelect(itemID, n)
	})
}

// ToggleInstance flips one instance selection on an INDIVIDUAL line.
func (s *Service) ToggleInstance(ctx context.Context, userID string, id, itemID, instanceID int64) (*request.DispatchSession, error) {
	return s.mutateDispatch(ctx, userID, id, func(sess *request.DispatchSession) error {
		return sess.ToggleInstance(itemID, instanceID)
	})
}

// SetBatchQuantity sets one batch's allocation on a BATCH line.
func (s *Service) SetBatchQuantity(ctx context.Context, userID string, id, itemID, batchID int64, qty decimal.Decimal) (*request.DispatchSession, error) {
	return s.mutateDispatch(ctx, userID, id, func(sess *request.DispatchSession) error {
		return sess.SetBatchQuantity(itemID, batchID, qty)
	})
}

// SetBulkQuantity sets the scalar allocation on a BULK line.
func (s *Service) SetBulkQuantity(ctx context.Context, userID string, id, itemID int64, qty decimal.Decimal) (*request.DispatchSession, error) {
	return s.mutateDispatch(ctx, userID, id, func(sess *request.DispatchSession) error {
		return sess.SetBulkQuantity(itemID, qty)
	})
}

// SubmitDispatch validates the built allocations and dispatches them as
// one call. Consumed first-wins like SubmitAvailability.
func (s *Service) SubmitDispatch(ctx context.Context, auth, userID string, id int64) (*model.InterStoreRequest, error) {
	key := dispatchKey(userID, id)

	var sess request.DispatchSession
	found, err := s.sessions.GetDel(ctx, key, &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrNoSession
	}

	payload, err := sess.BuildPayload()
	if err != nil {
		s.restore(ctx, key, &sess)
		return nil, err
	}

	req, err := s.api.DispatchItems(ctx, auth, id, payload)
	if err != nil {
		s.restore(ctx, key, &sess)
		return nil, err
	}
	return req, nil
}

// fetchSnapshots loads live stock for every available line concurrently
// with settle-all semantics: one line's failure never aborts the others,
// it just yields a zero-availability snapshot with an inline error.
func (s *Service) fetchSnapshots(ctx context.Context, auth string, req *model.InterStoreRequest) map[int64]request.StockSnapshot {
	type result struct {
		itemID int64
		snap   request.StockSnapshot
	}

	items := make([]model.RequestItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Available() {
			items = append(items, it)
		}
	}

	results := make(chan result, len(items))
	var wg sync.WaitGroup

	for _, it := range items {
		wg.Add(1)
		go func(it model.RequestItem) {
			defer wg.Done()

			stock, err := s.api.ItemStock(ctx, auth, req.FulfillingStore.ID, it.ItemID)
			if err != nil {
				log.Warn().Err(err).
					Int64("request_id", req.ID).
					Int64("item_id", it.ItemID).
					Msg("stock snapshot fetch failed")
				results <- result{it.ItemID, request.StockSnapshot{
					TrackingType: it.TrackingType,
					FetchError:   snapshotError(err),
				}}
				return
			}

			results <- result{it.ItemID, request.StockSnapshot{
				TrackingType: it.TrackingType,
				Instances:    stock.Instances,
				Batches:      stock.Batches,
				Quantity:     stock.AvailableQuantity,
			}}
		}(it)
	}

	wg.Wait()
	close(results)

	snaps := make(map[int64]request.StockSnapshot, len(items))
	for r := range results {
		snaps[r.itemID] = r.snap
	}
	return snaps
}

func (s *Service) mutateDispatch(ctx context.Context, userID string, id int64, mutate func(*request.DispatchSession) error) (*request.DispatchSession, error) {
	key := dispatchKey(userID, id)

	var sess request.DispatchSession
	found, err := s.sessions.Get(ctx, key, &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrNoSession
	}

	if err := mutate(&sess); err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, key, &sess, s.ttl); err != nil {
		return nil, err
	}
	return &sess, nil
}

// restore puts a consumed session back after a failed submit so the user
// can correct and retry. Best effort: losing it only forces a re-entry.
func (s *Service) restore(ctx context.Context, key string, sess interface{}) {
	if err := s.sessions.Set(ctx, key, sess, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to restore workflow session")
	}
}

func snapshotError(err error) string {
	if apiErr, ok := upstream.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return "stock lookup failed"
}

func availabilityKey(userID string, id int64) string {
	return fmt.Sprintf("session:availability:%s:%d", userID, id)
}

func dispatchKey(userID string, id int64) string {
	return fmt.Sprintf("session:dispatch:%s:%d", userID, id)
}
