package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"ams-gateway/internal/domains/location"
	locmodel "ams-gateway/internal/domains/location/model"
	"ams-gateway/internal/domains/stockentry"
	"ams-gateway/internal/domains/stockentry/model"
	"ams-gateway/internal/session"
	"ams-gateway/internal/upstream"
)

// UpstreamAPI is the slice of the platform client this service needs.
type UpstreamAPI interface {
	ListEntries(ctx context.Context, auth string, query url.Values) (upstream.List[model.StockEntry], error)
	MyEntries(ctx context.Context, auth string, query url.Values) (upstream.List[model.StockEntry], error)
	GetEntry(ctx context.Context, auth string, id int64) (*model.StockEntry, error)
	CreateEntry(ctx context.Context, auth string, in model.CreateStockEntryInput) (*model.StockEntry, error)
	CreateOptions(ctx context.Context, auth string) (*model.CreateOptions, error)
	ItemStock(ctx context.Context, auth string, storeID, itemID int64) (*upstream.ItemStock, error)
	AcknowledgeReceipt(ctx context.Context, auth string, id int64, payload *model.AcknowledgePayload) (*model.AcknowledgeResult, error)
	AcknowledgeReturn(ctx context.Context, auth string, id int64, payload *model.AcknowledgePayload) (*model.AcknowledgeResult, error)
	CancelEntry(ctx context.Context, auth string, id int64, reason string) (*model.StockEntry, error)
	ListStores(ctx context.Context, auth string, query url.Values) (upstream.List[locmodel.Store], error)
}

// Service orchestrates stock-entry workflows: creation with per-type
// validation, receipt acknowledgment with its working set, and return
// acknowledgment.
type Service struct {
	api      UpstreamAPI
	sessions session.Store
	ttl      time.Duration
}

func NewService(api UpstreamAPI, sessions session.Store, ttl time.Duration) *Service {
	return &Service{api: api, sessions: sessions, ttl: ttl}
}

// Detail pairs an entry with the caller's computed action gates.
type Detail struct {
	Entry   *model.StockEntry `json:"entry"`
	Actions model.Actions     `json:"actions"`
}

// List proxies an entry listing.
func (s *Service) List(ctx context.Context, auth string, query url.Values) (upstream.List[model.StockEntry], error) {
	return s.api.ListEntries(ctx, auth, query)
}

// MyEntries lists the entries the caller's stores are party to.
func (s *Service) MyEntries(ctx context.Context, auth string, query url.Values) (upstream.List[model.StockEntry], error) {
	return s.api.MyEntries(ctx, auth, query)
}

// Get fetches one entry and computes the caller's action gates.
func (s *Service) Get(ctx context.Context, auth string, id int64, userStores []string) (*Detail, error) {
	entry, err := s.api.GetEntry(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Entry: entry, Actions: model.Gates(entry, userStores)}, nil
}

// CreateOptions proxies the server-computed form option lists.
func (s *Service) CreateOptions(ctx context.Context, auth string) (*model.CreateOptions, error) {
	return s.api.CreateOptions(ctx, auth)
}

// ItemStock proxies the live stock lookup the creation form uses to bound
// quantities. Advisory only; the platform re-checks at submit time.
func (s *Service) ItemStock(ctx context.Context, auth string, storeID, itemID int64) (*upstream.ItemStock, error) {
	return s.api.ItemStock(ctx, auth, storeID, itemID)
}

// Create validates the form and submits it in one call. ISSUE entries get
// the source auto-filled when the caller has exactly one assignable store;
// RECEIPT entries have their source checked against the stores that may
// feed the receiver; BULK quantities are checked against fresh
// availability at the source.
func (s *Service) Create(ctx context.Context, auth string, in model.CreateStockEntryInput) (*model.StockEntry, error) {
	if in.EntryType == model.EntryTypeIssue && in.FromStoreID == nil {
		if err := s.autofillSource(ctx, auth, &in); err != nil {
			return nil, err
		}
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.EntryType == model.EntryTypeReceipt {
		if err := s.checkSource(ctx, auth, in); err != nil {
			return nil, err
		}
	}

	if in.TrackingType == model.TrackingBulk && in.FromStoreID != nil {
		stock, err := s.api.ItemStock(ctx, auth, *in.FromStoreID, in.ItemID)
		if err != nil {
			return nil, err
		}
		if in.Quantity.GreaterThan(stock.AvailableQuantity) {
			return nil, model.ErrExceedsAvailability
		}
	}

	return s.api.CreateEntry(ctx, auth, in)
}

// Cancel cancels a DRAFT or PENDING_ACK entry.
func (s *Service) Cancel(ctx context.Context, auth string, id int64, userStores []string, reason string) (*model.StockEntry, error) {
	entry, err := s.api.GetEntry(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !model.Gates(entry, userStores).CanCancel {
		return nil, model.ErrActionNotAllowed
	}
	return s.api.CancelEntry(ctx, auth, id, reason)
}

// =====================================================
// RECEIPT ACKNOWLEDGMENT SUB-FLOW
// =====================================================

// AckSession returns the caller's acknowledgment working set for an
// entry, seeding a fresh one when none is live.
func (s *Service) AckSession(ctx context.Context, auth, userID string, id int64, userStores []string) (*stockentry.AckSession, error) {
	key := ackKey(userID, id)

	var existing stockentry.AckSession
	found, err := s.sessions.Get(ctx, key, &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return &existing, nil
	}

	entry, err := s.api.GetEntry(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !model.Gates(entry, userStores).CanAcknowledgeReceipt {
		return nil, model.ErrActionNotAllowed
	}

	sess, err := stockentry.NewAckSession(entry)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, key, sess, s.ttl); err != nil {
		return nil, err
	}
	return sess, nil
}

// SetAccepted sets the accepted quantity; the rejected quantity follows.
func (s *Service) SetAccepted(ctx context.Context, userID string, id int64, q decimal.Decimal) (*stockentry.AckSession, error) {
	return s.mutateAck(ctx, userID, id, func(sess *stockentry.AckSession) error {
		sess.SetAccepted(q)
		return nil
	})
}

// SetRejected sets the rejected quantity; the accepted quantity follows.
func (s *Service) SetRejected(ctx context.Context, userID string, id int64, q decimal.Decimal) (*stockentry.AckSession, error) {
	return s.mutateAck(ctx, userID, id, func(sess *stockentry.AckSession) error {
		sess.SetRejected(q)
		return nil
	})
}

// AcceptInstance classifies one instance as accepted.
func (s *Service) AcceptInstance(ctx context.Context, userID string, id, instanceID int64) (*stockentry.AckSession, error) {
	return s.mutateAck(ctx, userID, id, func(sess *stockentry.AckSession) error {
		return sess.Accept(instanceID)
	})
}

// RejectInstance classifies one instance as rejected.
func (s *Service) RejectInstance(ctx context.Context, userID string, id, instanceID int64) (*stockentry.AckSession, error) {
	return s.mutateAck(ctx, userID, id, func(sess *stockentry.AckSession) error {
		return sess.Reject(instanceID)
	})
}

// SetReason records the rejection reason.
func (s *Service) SetReason(ctx context.Context, userID string, id int64, reason string) (*stockentry.AckSession, error) {
	return s.mutateAck(ctx, userID, id, func(sess *stockentry.AckSession) error {
		sess.SetReason(reason)
		return nil
	})
}

// SubmitAck validates the working set and submits it. Consumed first-wins
// against double submission; restored on upstream rejection. A created
// return entry is logged and passed through for distinct surfacing.
func (s *Service) SubmitAck(ctx context.Context, auth, userID string, id int64) (*model.AcknowledgeResult, error) {
	key := ackKey(userID, id)

	var sess stockentry.AckSession
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

	result, err := s.api.AcknowledgeReceipt(ctx, auth, id, payload)
	if err != nil {
		s.restore(ctx, key, &sess)
		return nil, err
	}

	if result.ReturnEntryNumber != "" {
		log.Info().
			Int64("entry_id", id).
			Str("return_entry", result.ReturnEntryNumber).
			Msg("return entry created for rejected stock")
	}
	return result, nil
}

// AcknowledgeReturn accepts a RETURN entry in full.
func (s *Service) AcknowledgeReturn(ctx context.Context, auth string, id int64, userStores []string) (*model.AcknowledgeResult, error) {
	entry, err := s.api.GetEntry(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !model.Gates(entry, userStores).CanAcknowledgeReturn {
		return nil, model.ErrActionNotAllowed
	}

	payload, err := stockentry.ReturnAckPayload(entry)
	if err != nil {
		return nil, err
	}
	return s.api.AcknowledgeReturn(ctx, auth, id, payload)
}

// autofillSource fills the ISSUE source store when the caller has exactly
// one assignable store. With zero or several, the form must choose.
func (s *Service) autofillSource(ctx context.Context, auth string, in *model.CreateStockEntryInput) error {
	opts, err := s.api.CreateOptions(ctx, auth)
	if err != nil {
		return err
	}
	if len(opts.AssignableStores) == 1 {
		in.FromStoreID = &opts.AssignableStores[0].ID
	}
	return nil
}

// checkSource verifies that a RECEIPT's source store may feed the
// receiving store: same-parent siblings always can, and main stores of
// other top-level locations can when the receiver is itself a main store.
func (s *Service) checkSource(ctx context.Context, auth string, in model.CreateStockEntryInput) error {
	if in.FromStoreID == nil || in.ToStoreID == nil {
		return nil // required-field validation already reported this
	}

	list, err := s.api.ListStores(ctx, auth, nil)
	if err != nil {
		return err
	}

	var receiving *locmodel.Store
	for i := range list.Results {
		if list.Results[i].ID == *in.ToStoreID {
			receiving = &list.Results[i]
			break
		}
	}
	if receiving == nil {
		return model.ErrInvalidSource
	}

	for _, src := range location.ValidSourceStores(*receiving, list.Results) {
		if src.ID == *in.FromStoreID {
			return nil
		}
	}
	return model.ErrInvalidSource
}

func (s *Service) mutateAck(ctx context.Context, userID string, id int64, mutate func(*stockentry.AckSession) error) (*stockentry.AckSession, error) {
	key := ackKey(userID, id)

	var sess stockentry.AckSession
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

func (s *Service) restore(ctx context.Context, key string, sess interface{}) {
	if err := s.sessions.Set(ctx, key, sess, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to restore workflow session")
	}
}

func ackKey(userID string, id int64) string {
	return fmt.Sprintf("session:ack:%s:%d", userID, id)
}
