package model

import "errors"

var (
	// ErrSameStore is returned when a request names the same store on both sides.
	ErrSameStore = errors.New("fulfilling store must differ from requesting store")

	// ErrNonPositiveQuantity is returned when a line quantity is zero or negative.
	ErrNonPositiveQuantity = errors.New("quantity must be positive")

	// ErrReasonRequired is returned when a line is marked unavailable without a reason.
	ErrReasonRequired = errors.New("unavailability reason is required when a line is marked unavailable")

	// ErrUnknownItem is returned when a sub-flow operation names an item not on the request.
	ErrUnknownItem = errors.New("item is not part of this request")

	// ErrUnknownInstance is returned when a selection names an instance absent from the stock snapshot.
	ErrUnknownInstance = errors.New("instance is not in the fetched stock for this item")

	// ErrUnknownBatch is returned when an allocation names a batch absent from the stock snapshot.
	ErrUnknownBatch = errors.New("batch is not in the fetched stock for this item")

	// ErrTrackingMismatch is returned when a selection operation does not fit the item's tracking type.
	ErrTrackingMismatch = errors.New("operation does not match the item's tracking type")

	// ErrEmptyDispatch is returned when submit is attempted with no allocation at all.
	ErrEmptyDispatch = errors.New("nothing selected to dispatch")

	// ErrNoSession is returned when a sub-flow operation arrives without a live session.
	ErrNoSession = errors.New("no active workflow session; it may have expired or already been submitted")

	// ErrActionNotAllowed is returned when the request's status or the caller's
	// store access does not permit the attempted action.
	ErrActionNotAllowed = errors.New("action is not allowed for this request in its current state")
)
