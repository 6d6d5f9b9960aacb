package domain

// Status is the order status. The happy path runs from pending through
// confirmed and paid to completed; payment_failed branches off on a declined
// charge, and cancelled/refunded are reached through explicit admin action.
type Status string

const (
	StatusPending           Status = "pending"
	StatusConfirmed         Status = "confirmed"
	StatusPaymentProcessing Status = "payment_processing"
	StatusPaid              Status = "paid"
	StatusProcessing        Status = "processing"
	StatusShipped           Status = "shipped"
	StatusDelivered         Status = "delivered"
	StatusCompleted         Status = "completed"
	StatusPaymentFailed     Status = "payment_failed"
	StatusCancelled         Status = "cancelled"
	StatusRefunded          Status = "refunded"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaymentProcessing, StatusPaid,
		StatusProcessing, StatusShipped, StatusDelivered, StatusCompleted,
		StatusPaymentFailed, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// PaymentStatus tracks the payment side of an order independently of the
// fulfillment status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)
