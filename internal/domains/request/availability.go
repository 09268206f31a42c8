package request

import (
	"github.com/google/uuid"

	"ams-gateway/internal/domains/request/model"
)

// AvailabilityDecision is one line of the availability working set.
type AvailabilityDecision struct {
	ItemID               int64  `json:"item_id"`
	ItemName             string `json:"item_name"`
	IsAvailable          bool   `json:"is_available"`
	UnavailabilityReason string `json:"unavailability_reason"`
}

// AvailabilitySession is the transient working set of the
// availability-marking sub-flow. It is seeded from the request's lines,
// edited in place, and submitted as one complete batch. The sub-flow may be
// re-entered any number of times while the request stays in PROCESSING.
type AvailabilitySession struct {
	ID        string                 `json:"id"`
	RequestID int64                  `json:"request_id"`
	Decisions []AvailabilityDecision `json:"decisions"`
}

// NewAvailabilitySession seeds a session from the request's items. Lines
// without a prior decision default to available (accept-all); lines the
// fulfiller already reviewed keep the server-reported value.
func NewAvailabilitySession(req *model.InterStoreRequest) *AvailabilitySession {
	s := &AvailabilitySession{
		ID:        uuid.New().String(),
		RequestID: req.ID,
		Decisions: make([]AvailabilityDecision, 0, len(req.Items)),
	}

	for _, it := range req.Items {
		available := true
		if it.IsAvailable != nil {
			available = *it.IsAvailable
		}
		s.Decisions = append(s.Decisions, AvailabilityDecision{
			ItemID:               it.ItemID,
			ItemName:             it.ItemName,
			IsAvailable:          available,
			UnavailabilityReason: it.UnavailabilityReason,
		})
	}

	return s
}

// SetAvailable marks a line available and clears its reason.
func (s *AvailabilitySession) SetAvailable(itemID int64) error {
	d := s.decision(itemID)
	if d == nil {
		return model.ErrUnknownItem
	}
	d.IsAvailable = true
	d.UnavailabilityReason = ""
	return nil
}

// SetUnavailable marks a line unavailable. A previously typed reason is
// preserved when reason is empty, so toggling back and forth does not lose
// the fulfiller's text.
func (s *AvailabilitySession) SetUnavailable(itemID int64, reason string) error {
	d := s.decision(itemID)
	if d == nil {
		return model.ErrUnknownItem
	}
	d.IsAvailable = false
	if reason != "" {
		d.UnavailabilityReason = reason
	}
	return nil
}

// Payload produces the full per-line array for mark_availability. Every
// unavailable line must carry a reason; partial submission is not a thing.
func (s *AvailabilitySession) Payload() ([]model.AvailabilityItemPayload, error) {
	payload := make([]model.AvailabilityItemPayload, 0, len(s.Decisions))

	for _, d := range s.Decisions {
		if !d.IsAvailable && d.UnavailabilityReason == "" {
			return nil, model.ErrReasonRequired
		}
		payload = append(payload, model.AvailabilityItemPayload{
			ItemID:               d.ItemID,
			IsAvailable:          d.IsAvailable,
			UnavailabilityReason: d.UnavailabilityReason,
		})
	}

	return payload, nil
}

func (s *AvailabilitySession) decision(itemID int64) *AvailabilityDecision {
	for i := range s.Decisions {
		if s.Decisions[i].ItemID == itemID {
			return &s.Decisions[i]
		}
	}
	return nil
}
