package stockentry

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ams-gateway/internal/domains/stockentry/model"
)

func bulkEntry() *model.StockEntry {
	return &model.StockEntry{
		ID:           1,
		EntryType:    model.EntryTypeTransfer,
		Status:       model.EntryStatusPendingAck,
		TrackingType: model.TrackingBulk,
		Quantity:     decimal.NewFromInt(10),
	}
}

func individualEntry() *model.StockEntry {
	return &model.StockEntry{
		ID:           2,
		EntryType:    model.EntryTypeTransfer,
		Status:       model.EntryStatusPendingAck,
		TrackingType: model.TrackingIndividual,
		Quantity:     decimal.NewFromInt(3),
		InstanceIDs:  []int64{11, 12, 13},
	}
}

func TestNewAckSession_RequiresPendingAck(t *testing.T) {
	e := bulkEntry()
	e.Status = model.EntryStatusCompleted

	_, err := NewAckSession(e)
	assert.ErrorIs(t, err, model.ErrNotPendingAck)
}

func TestNewAckSession_SeedsAcceptAll(t *testing.T) {
	s, err := NewAckSession(bulkEntry())
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(10).Equal(s.AcceptedQuantity))
	assert.True(t, s.RejectedQuantity.IsZero())

	si, err := NewAckSession(individualEntry())
	require.NoError(t, err)
	assert.Empty(t, si.AcceptedInstances, "individual entries start unclassified")
	assert.Empty(t, si.RejectedInstances)
}

func TestAckSession_QuantitySplitInvariant(t *testing.T) {
	s, err := NewAckSession(bulkEntry())
	require.NoError(t, err)

	s.SetAccepted(decimal.NewFromInt(7))
	assert.True(t, decimal.NewFromInt(3).Equal(s.RejectedQuantity),
		"rejected is back-computed from the delivered total")

	s.SetRejected(decimal.NewFromInt(10))
	assert.True(t, s.AcceptedQuantity.IsZero())

	// Clamped at both ends.
	s.SetAccepted(decimal.NewFromInt(99))
	assert.True(t, decimal.NewFromInt(10).Equal(s.AcceptedQuantity))
	assert.True(t, s.RejectedQuantity.IsZero())

	s.SetRejected(decimal.NewFromInt(-5))
	assert.True(t, s.RejectedQuantity.IsZero())
	assert.True(t, decimal.NewFromInt(10).Equal(s.AcceptedQuantity))
}

func TestAckSession_InstanceSetsMutuallyExclusive(t *testing.T) {
	s, err := NewAckSession(individualEntry())
	require.NoError(t, err)

	require.NoError(t, s.Accept(11))
	require.NoError(t, s.Accept(12))
	require.NoError(t, s.Reject(12))

	assert.Equal(t, []int64{11}, s.AcceptedInstances)
	assert.Equal(t, []int64{12}, s.RejectedInstances)

	require.NoError(t, s.Accept(12))
	assert.Equal(t, []int64{11, 12}, s.AcceptedInstances)
	assert.Empty(t, s.RejectedInstances)

	assert.ErrorIs(t, s.Accept(999), model.ErrUnknownInstance)
	assert.ErrorIs(t, s.Reject(999), model.ErrUnknownInstance)
}

func TestAckSession_PayloadRules(t *testing.T) {
	t.Run("rejection_requires_reason", func(t *testing.T) {
		s, err := NewAckSession(bulkEntry())
		require.NoError(t, err)
		s.SetRejected(decimal.NewFromInt(2))

		_, err = s.Payload()
		assert.ErrorIs(t, err, model.ErrReasonRequired)

		s.SetReason("Damaged on arrival")
		p, err := s.Payload()
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(8).Equal(*p.AcceptedQuantity))
		assert.True(t, decimal.NewFromInt(2).Equal(*p.RejectedQuantity))
		assert.Equal(t, "Damaged on arrival", p.RejectionReason)
	})

	t.Run("full_accept_needs_no_reason", func(t *testing.T) {
		s, err := NewAckSession(bulkEntry())
		require.NoError(t, err)

		p, err := s.Payload()
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(*p.AcceptedQuantity))
	})

	t.Run("individual_needs_a_classification", func(t *testing.T) {
		s, err := NewAckSession(individualEntry())
		require.NoError(t, err)

		_, err = s.Payload()
		assert.ErrorIs(t, err, model.ErrNothingClassified)

		require.NoError(t, s.Accept(11))
		p, err := s.Payload()
		require.NoError(t, err)
		assert.Equal(t, []int64{11}, p.AcceptedInstances)
	})
}

func TestReturnAckPayload(t *testing.T) {
	e := bulkEntry()
	e.EntryType = model.EntryTypeReturn

	p, err := ReturnAckPayload(e)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(*p.AcceptedQuantity))
	assert.True(t, p.RejectedQuantity.IsZero(), "returns are accepted in full")

	_, err = ReturnAckPayload(bulkEntry())
	assert.ErrorIs(t, err, model.ErrNotReturnEntry)

	e.Status = model.EntryStatusCompleted
	_, err = ReturnAckPayload(e)
	assert.ErrorIs(t, err, model.ErrNotPendingAck)
}

func TestGates_StockEntry(t *testing.T) {
	entry := func(status model.EntryStatus, entryType model.EntryType) *model.StockEntry {
		e := bulkEntry()
		e.Status = status
		e.EntryType = entryType
		e.FromStore.Code = "ST-SEND"
		e.ToStore.Code = "ST-RECV"
		return e
	}

	tests := []struct {
		name   string
		entry  *model.StockEntry
		stores []string
		want   model.Actions
	}{
		{
			name:   "receiver_acknowledges_pending_transfer",
			entry:  entry(model.EntryStatusPendingAck, model.EntryTypeTransfer),
			stores: []string{"ST-RECV"},
			want:   model.Actions{CanAcknowledgeReceipt: true},
		},
		{
			name:   "receiver_acknowledges_pending_return",
			entry:  entry(model.EntryStatusPendingAck, model.EntryTypeReturn),
			stores: []string{"ST-RECV"},
			want:   model.Actions{CanAcknowledgeReturn: true},
		},
		{
			name:   "sender_cancels_pending",
			entry:  entry(model.EntryStatusPendingAck, model.EntryTypeTransfer),
			stores: []string{"ST-SEND"},
			want:   model.Actions{CanCancel: true},
		},
		{
			name:   "sender_cancels_draft",
			entry:  entry(model.EntryStatusDraft, model.EntryTypeTransfer),
			stores: []string{"ST-SEND"},
			want:   model.Actions{CanCancel: true},
		},
		{
			name:   "completed_offers_nothing",
			entry:  entry(model.EntryStatusCompleted, model.EntryTypeTransfer),
			stores: []string{"ST-RECV", "ST-SEND"},
			want:   model.Actions{},
		},
		{
			name:   "outsider_gets_nothing",
			entry:  entry(model.EntryStatusPendingAck, model.EntryTypeTransfer),
			stores: []string{"ST-OTHER"},
			want:   model.Actions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Gates(tt.entry, tt.stores))
		})
	}

	assert.Equal(t, model.Actions{}, model.Gates(nil, []string{"ST-RECV"}))
	assert.Equal(t, model.Actions{}, model.Gates(bulkEntry(), nil))
}
