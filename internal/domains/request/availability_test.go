package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ams-gateway/internal/domains/request/model"
)

func availabilityFixture() *model.InterStoreRequest {
	req := sampleRequest(model.StatusProcessing)
	req.Items = []model.RequestItem{
		{ItemID: 100, ItemName: "Scalpel"},
		{ItemID: 101, ItemName: "Gauze", IsAvailable: boolPtr(false), UnavailabilityReason: "Out of stock"},
		{ItemID: 102, ItemName: "Saline"},
	}
	return req
}

func TestNewAvailabilitySession_SeedsAcceptAll(t *testing.T) {
	s := NewAvailabilitySession(availabilityFixture())

	require.Len(t, s.Decisions, 3)
	assert.True(t, s.Decisions[0].IsAvailable, "unreviewed lines default to available")
	assert.True(t, s.Decisions[2].IsAvailable)

	// A prior server-side decision is kept, not reset.
	assert.False(t, s.Decisions[1].IsAvailable)
	assert.Equal(t, "Out of stock", s.Decisions[1].UnavailabilityReason)
}

func TestAvailabilitySession_ToggleKeepsTypedReason(t *testing.T) {
	s := NewAvailabilitySession(availabilityFixture())

	require.NoError(t, s.SetUnavailable(100, "Damaged in transit"))
	require.NoError(t, s.SetAvailable(100))
	require.NoError(t, s.SetUnavailable(100, ""))

	// Toggling available clears the reason; it is not resurrected.
	d := s.Decisions[0]
	assert.False(t, d.IsAvailable)
	assert.Equal(t, "", d.UnavailabilityReason)

	// But flipping unavailable->unavailable with no new text keeps the old.
	require.NoError(t, s.SetUnavailable(101, ""))
	assert.Equal(t, "Out of stock", s.Decisions[1].UnavailabilityReason)
}

func TestAvailabilitySession_UnknownItem(t *testing.T) {
	s := NewAvailabilitySession(availabilityFixture())

	assert.ErrorIs(t, s.SetAvailable(999), model.ErrUnknownItem)
	assert.ErrorIs(t, s.SetUnavailable(999, "x"), model.ErrUnknownItem)
}

func TestAvailabilitySession_PayloadRequiresReasons(t *testing.T) {
	s := NewAvailabilitySession(availabilityFixture())
	require.NoError(t, s.SetUnavailable(100, ""))

	_, err := s.Payload()
	assert.ErrorIs(t, err, model.ErrReasonRequired)

	require.NoError(t, s.SetUnavailable(100, "Expired"))
	payload, err := s.Payload()
	require.NoError(t, err)

	// The payload always carries every line, decided or defaulted.
	require.Len(t, payload, 3)
	assert.Equal(t, int64(100), payload[0].ItemID)
	assert.False(t, payload[0].IsAvailable)
	assert.Equal(t, "Expired", payload[0].UnavailabilityReason)
	assert.True(t, payload[2].IsAvailable)
}
