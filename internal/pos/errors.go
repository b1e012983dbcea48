package pos

import "fmt"

// Absence and existence failures reported by POS callbacks. These are
// expected conditions, never fatal; engines log them and take the
// compensating action.

type OrderDoesNotExistOnPosError struct {
	PosOrderId string
}

func (e *OrderDoesNotExistOnPosError) Error() string {
	return fmt.Sprintf("order does not exist on pos, posOrderId:%s", e.PosOrderId)
}

type TransactionDoesNotExistOnPosError struct {
	TransactionId string
}

func (e *TransactionDoesNotExistOnPosError) Error() string {
	return fmt.Sprintf("transaction does not exist on pos, transactionId:%s", e.TransactionId)
}

type BookingDoesNotExistOnPosError struct {
	BookingId string
}

func (e *BookingDoesNotExistOnPosError) Error() string {
	return fmt.Sprintf("booking does not exist on pos, bookingId:%s", e.BookingId)
}

type BookingExistOnPosError struct {
	BookingId string
}

func (e *BookingExistOnPosError) Error() string {
	return fmt.Sprintf("booking already exists on pos, bookingId:%s", e.BookingId)
}

type MemberDoesNotExistOnPosError struct {
	MemberId string
}

func (e *MemberDoesNotExistOnPosError) Error() string {
	return fmt.Sprintf("member does not exist on pos, memberId:%s", e.MemberId)
}

type MemberExistOnPosError struct {
	MemberId string
}

func (e *MemberExistOnPosError) Error() string {
	return fmt.Sprintf("member already exists on pos, memberId:%s", e.MemberId)
}

type AppDoesNotExistOnPosError struct {
	AppId string
}

func (e *AppDoesNotExistOnPosError) Error() string {
	return fmt.Sprintf("app does not exist on pos, appId:%s", e.AppId)
}
