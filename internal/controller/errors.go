package controller

import "fmt"

// NotInitializedError is returned by facade methods called before
// Initialize succeeded.
type NotInitializedError struct{}

func (e *NotInitializedError) Error() string {
	return "doshii controller is not initialized, call Initialize first"
}

// OrderUpdateError wraps any failure to push an order change to the
// platform, including the sentinel-id case where the platform reported
// success but returned zeroed identifiers.
type OrderUpdateError struct {
	PosOrderId string
	Cause      error
}

func (e *OrderUpdateError) Error() string {
	return fmt.Sprintf("failed to update order on platform, posOrderId:%s, cause: %v", e.PosOrderId, e.Cause)
}

func (e *OrderUpdateError) Unwrap() error { return e.Cause }

// ConflictWithOrderUpdateError marks an HTTP 409: the version sent was
// stale. Only the order-ahead confirmation path surfaces it distinctly.
type ConflictWithOrderUpdateError struct {
	DoshiiId string
	Cause    error
}

func (e *ConflictWithOrderUpdateError) Error() string {
	return fmt.Sprintf("order version conflict on platform, doshiiId:%s, cause: %v", e.DoshiiId, e.Cause)
}

func (e *ConflictWithOrderUpdateError) Unwrap() error { return e.Cause }

// CheckinUpdateError wraps failures to modify a checkin.
type CheckinUpdateError struct {
	CheckinId string
	Cause     error
}

func (e *CheckinUpdateError) Error() string {
	return fmt.Sprintf("failed to update checkin on platform, checkinId:%s, cause: %v", e.CheckinId, e.Cause)
}

func (e *CheckinUpdateError) Unwrap() error { return e.Cause }

// BookingUpdateError wraps failures in the booking seat flow.
type BookingUpdateError struct {
	BookingId string
	Cause     error
}

func (e *BookingUpdateError) Error() string {
	return fmt.Sprintf("failed to update booking on platform, bookingId:%s, cause: %v", e.BookingId, e.Cause)
}

func (e *BookingUpdateError) Unwrap() error { return e.Cause }

// ProtocolViolationError marks a platform message outside the documented
// contract. It must reach the integrator; engines never swallow it.
type ProtocolViolationError struct {
	Detail string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("platform protocol violation: %s", e.Detail)
}
