package model

import (
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func validTransfer() CreateStockEntryInput {
	return CreateStockEntryInput{
		EntryType:    EntryTypeTransfer,
		ItemID:       100,
		TrackingType: TrackingBulk,
		Quantity:     decimal.NewFromInt(5),
		FromStoreID:  int64Ptr(1),
		ToStoreID:    int64Ptr(2),
	}
}

// fieldError digs a sentinel out of ozzo's per-field error map.
func fieldError(t *testing.T, err error, target error) {
	t.Helper()
	require.Error(t, err)

	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		for _, fieldErr := range vErrs {
			if errors.Is(fieldErr, target) {
				return
			}
		}
	}
	assert.Fail(t, "sentinel not found", "expected %v in %v", target, err)
}

func TestCreateStockEntryInput_Valid(t *testing.T) {
	assert.NoError(t, validTransfer().Validate())
}

func TestCreateStockEntryInput_RequiredStoresByType(t *testing.T) {
	tests := []struct {
		name      string
		entryType EntryType
		from      *int64
		to        *int64
		wantErr   bool
	}{
		{"transfer_needs_both", EntryTypeTransfer, nil, int64Ptr(2), true},
		{"issue_needs_destination", EntryTypeIssue, int64Ptr(1), nil, true},
		{"receipt_needs_source", EntryTypeReceipt, nil, int64Ptr(2), true},
		{"correction_needs_no_destination", EntryTypeCorrection, int64Ptr(1), nil, false},
		{"return_needs_neither", EntryTypeReturn, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validTransfer()
			in.EntryType = tt.entryType
			in.FromStoreID = tt.from
			in.ToStoreID = tt.to

			err := in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateStockEntryInput_DistinctStores(t *testing.T) {
	in := validTransfer()
	in.ToStoreID = int64Ptr(1)

	fieldError(t, in.Validate(), ErrSameLocation)
}

func TestCreateStockEntryInput_QuantityRules(t *testing.T) {
	t.Run("quantity_must_be_positive", func(t *testing.T) {
		in := validTransfer()
		in.Quantity = decimal.Zero
		fieldError(t, in.Validate(), ErrNonPositiveQuantity)
	})

	t.Run("individual_count_must_match", func(t *testing.T) {
		in := validTransfer()
		in.TrackingType = TrackingIndividual
		in.Quantity = decimal.NewFromInt(3)
		in.InstanceIDs = []int64{11, 12}
		fieldError(t, in.Validate(), ErrInstanceCountMismatch)

		in.InstanceIDs = []int64{11, 12, 13}
		assert.NoError(t, in.Validate())
	})

	t.Run("batch_sum_must_match", func(t *testing.T) {
		in := validTransfer()
		in.TrackingType = TrackingBatch
		in.Quantity = decimal.NewFromInt(10)
		in.Batches = []BatchAllocationInput{
			{BatchID: 1, Quantity: decimal.NewFromInt(4)},
			{BatchID: 2, Quantity: decimal.NewFromInt(5)},
		}
		fieldError(t, in.Validate(), ErrBatchSumMismatch)

		in.Batches[1].Quantity = decimal.NewFromInt(6)
		assert.NoError(t, in.Validate())
	})

	t.Run("batch_lines_must_be_positive", func(t *testing.T) {
		in := validTransfer()
		in.TrackingType = TrackingBatch
		in.Quantity = decimal.NewFromInt(4)
		in.Batches = []BatchAllocationInput{
			{BatchID: 1, Quantity: decimal.NewFromInt(4)},
			{BatchID: 2, Quantity: decimal.Zero},
		}
		fieldError(t, in.Validate(), ErrNonPositiveQuantity)
	})
}

func TestCreateStockEntryInput_TemporaryIssue(t *testing.T) {
	returnDate := time.Now().Add(48 * time.Hour)

	t.Run("temporary_only_for_issue", func(t *testing.T) {
		in := validTransfer()
		in.IsTemporary = true
		in.ExpectedReturnDate = &returnDate
		in.IssuedTo = "Dr. Tran"
		fieldError(t, in.Validate(), ErrTemporaryOnlyForIssue)
	})

	t.Run("temporary_issue_needs_date_and_recipient", func(t *testing.T) {
		in := validTransfer()
		in.EntryType = EntryTypeIssue
		in.IsTemporary = true
		fieldError(t, in.Validate(), ErrTemporaryFieldsRequired)

		in.ExpectedReturnDate = &returnDate
		in.IssuedTo = "Dr. Tran"
		assert.NoError(t, in.Validate())
	})

	t.Run("permanent_issue_skips_temporary_fields", func(t *testing.T) {
		in := validTransfer()
		in.EntryType = EntryTypeIssue
		assert.NoError(t, in.Validate())
	})
}
