package model

import "errors"

var (
	// ErrNonPositiveQuantity is returned when the entry quantity is zero or negative.
	ErrNonPositiveQuantity = errors.New("quantity must be positive")

	// ErrInstanceCountMismatch is returned when the selected instances do not match the quantity.
	ErrInstanceCountMismatch = errors.New("instance count must equal the entry quantity")

	// ErrBatchSumMismatch is returned when batch allocations do not sum to the entry quantity.
	ErrBatchSumMismatch = errors.New("batch allocations must sum to the entry quantity")

	// ErrSameLocation is returned when source and destination are the same store.
	ErrSameLocation = errors.New("destination must differ from source")

	// ErrTemporaryFieldsRequired is returned when a temporary issue lacks a return date or recipient.
	ErrTemporaryFieldsRequired = errors.New("temporary issue requires an expected return date and a recipient")

	// ErrTemporaryOnlyForIssue is returned when the temporary modifier is used outside ISSUE.
	ErrTemporaryOnlyForIssue = errors.New("temporary modifier applies to ISSUE entries only")

	// ErrInvalidSource is returned when the source store is not a valid source for the receiving store.
	ErrInvalidSource = errors.New("source store cannot feed the selected receiving store")

	// ErrExceedsAvailability is returned when a bulk quantity exceeds the fetched availability.
	ErrExceedsAvailability = errors.New("quantity exceeds the available stock at the source store")

	// ErrNothingClassified is returned when acknowledgment is submitted with no instance classified.
	ErrNothingClassified = errors.New("classify at least one instance before submitting")

	// ErrReasonRequired is returned when any rejection lacks a reason.
	ErrReasonRequired = errors.New("rejection reason is required when rejecting stock")

	// ErrUnknownInstance is returned when a classification names an instance not on the entry.
	ErrUnknownInstance = errors.New("instance is not part of this entry")

	// ErrNotPendingAck is returned when acknowledging an entry that is not awaiting acknowledgment.
	ErrNotPendingAck = errors.New("entry is not awaiting acknowledgment")

	// ErrNotReturnEntry is returned when the return-acknowledgment flow is used on a non-return entry.
	ErrNotReturnEntry = errors.New("entry is not a return entry")

	// ErrNoSession is returned when an acknowledgment operation arrives without a live session.
	ErrNoSession = errors.New("no active acknowledgment session; it may have expired or already been submitted")

	// ErrActionNotAllowed is returned when the entry's status or the caller's
	// store access does not permit the attempted action.
	ErrActionNotAllowed = errors.New("action is not allowed for this entry in its current state")
)
