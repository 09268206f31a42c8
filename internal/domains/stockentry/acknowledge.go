package stockentry

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ams-gateway/internal/domains/stockentry/model"
)

// AckSession is the working set of the receipt-acknowledgment sub-flow for
// one PENDING_ACK entry. For BULK/BATCH entries it holds the
// accepted/rejected split; for INDIVIDUAL entries the two classification
// sets. The invariants of the split (quantities sum to the delivered
// total, no instance in both sets) hold by construction at every point.
type AckSession struct {
	ID           string             `json:"id"`
	EntryID      int64              `json:"entry_id"`
	TrackingType model.TrackingType `json:"tracking_type"`

	Total            decimal.Decimal `json:"total_quantity"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`

	Instances         []int64 `json:"instances,omitempty"`
	AcceptedInstances []int64 `json:"accepted_instances,omitempty"`
	RejectedInstances []int64 `json:"rejected_instances,omitempty"`

	Reason string `json:"rejection_reason"`
}

// NewAckSession seeds a session from a PENDING_ACK entry. Quantity-tracked
// entries start as accept-all; individually tracked entries start with
// nothing classified.
func NewAckSession(e *model.StockEntry) (*AckSession, error) {
	if e.Status != model.EntryStatusPendingAck {
		return nil, model.ErrNotPendingAck
	}

	s := &AckSession{
		ID:           uuid.New().String(),
		EntryID:      e.ID,
		TrackingType: e.TrackingType,
		Total:        e.Quantity,
	}

	if e.TrackingType == model.TrackingIndividual {
		s.Instances = append([]int64(nil), e.InstanceIDs...)
	} else {
		s.AcceptedQuantity = e.Quantity
		s.RejectedQuantity = decimal.Zero
	}

	return s, nil
}

// SetAccepted sets the accepted quantity, clamped to [0, total], and
// back-computes the rejected quantity so the split always covers the
// delivered total.
func (s *AckSession) SetAccepted(q decimal.Decimal) {
	q = clamp(q, s.Total)
	s.AcceptedQuantity = q
	s.RejectedQuantity = s.Total.Sub(q)
}

// SetRejected sets the rejected quantity, clamped to [0, total], and
// back-computes the accepted quantity.
func (s *AckSession) SetRejected(q decimal.Decimal) {
	q = clamp(q, s.Total)
	s.RejectedQuantity = q
	s.AcceptedQuantity = s.Total.Sub(q)
}

// Accept classifies an instance as accepted, removing it from the rejected
// set if present. The two sets stay mutually exclusive by construction.
func (s *AckSession) Accept(instanceID int64) error {
	if !contains(s.Instances, instanceID) {
		return model.ErrUnknownInstance
	}
	s.RejectedInstances = remove(s.RejectedInstances, instanceID)
	if !contains(s.AcceptedInstances, instanceID) {
		s.AcceptedInstances = append(s.AcceptedInstances, instanceID)
	}
	return nil
}

// Reject classifies an instance as rejected, removing it from the accepted
// set if present.
func (s *AckSession) Reject(instanceID int64) error {
	if !contains(s.Instances, instanceID) {
		return model.ErrUnknownInstance
	}
	s.AcceptedInstances = remove(s.AcceptedInstances, instanceID)
	if !contains(s.RejectedInstances, instanceID) {
		s.RejectedInstances = append(s.RejectedInstances, instanceID)
	}
	return nil
}

// SetReason records the rejection reason.
func (s *AckSession) SetReason(reason string) {
	s.Reason = reason
}

// rejecting reports whether any portion of the delivery is being rejected.
func (s *AckSession) rejecting() bool {
	if s.TrackingType == model.TrackingIndividual {
		return len(s.RejectedInstances) > 0
	}
	return s.RejectedQuantity.IsPositive()
}

// Payload validates the working set and shapes the acknowledge_receipt
// body. Rejection of any amount requires a reason; acceptance alone does
// not. INDIVIDUAL entries need at least one instance classified.
func (s *AckSession) Payload() (*model.AcknowledgePayload, error) {
	if s.rejecting() && s.Reason == "" {
		return nil, model.ErrReasonRequired
	}

	if s.TrackingType == model.TrackingIndividual {
		if len(s.AcceptedInstances)+len(s.RejectedInstances) == 0 {
			return nil, model.ErrNothingClassified
		}
		return &model.AcknowledgePayload{
			AcceptedInstances: s.AcceptedInstances,
			RejectedInstances: s.RejectedInstances,
			RejectionReason:   s.Reason,
		}, nil
	}

	accepted := s.AcceptedQuantity
	rejected := s.RejectedQuantity
	return &model.AcknowledgePayload{
		AcceptedQuantity: &accepted,
		RejectedQuantity: &rejected,
		RejectionReason:  s.Reason,
	}, nil
}

// ReturnAckPayload shapes the acknowledge_return body for a RETURN entry.
// A return, once physically received, is accepted in full; there is no
// partial or rejection path through this flow.
func ReturnAckPayload(e *model.StockEntry) (*model.AcknowledgePayload, error) {
	if e.EntryType != model.EntryTypeReturn {
		return nil, model.ErrNotReturnEntry
	}
	if e.Status != model.EntryStatusPendingAck {
		return nil, model.ErrNotPendingAck
	}

	if e.TrackingType == model.TrackingIndividual {
		return &model.AcknowledgePayload{
			AcceptedInstances: append([]int64(nil), e.InstanceIDs...),
		}, nil
	}

	accepted := e.Quantity
	rejected := decimal.Zero
	return &model.AcknowledgePayload{
		AcceptedQuantity: &accepted,
		RejectedQuantity: &rejected,
	}, nil
}

func clamp(q, total decimal.Decimal) decimal.Decimal {
	if q.IsNegative() {
		return decimal.Zero
	}
	if q.GreaterThan(total) {
		return total
	}
	return q
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
