package contracts

// PaymentRequested asks the payment processor to charge for an order.
// Amount is the confirmed order total, shipping included.
type PaymentRequested struct {
	OrderID string  `json:"order_id"`
	UserID  string  `json:"user_id"`
	Amount  float64 `json:"amount"`
}

// PaymentCompleted reports a successful charge back to the orchestrator.
type PaymentCompleted struct {
	PaymentID     string  `json:"payment_id"`
	OrderID       string  `json:"order_id"`
	UserID        string  `json:"user_id"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

// PaymentFailed reports a declined or errored charge.
type PaymentFailed struct {
	PaymentID string  `json:"payment_id"`
	OrderID   string  `json:"order_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Error     string  `json:"error"`
}

// PaymentRefunded reports a refund of a previously completed payment.
type PaymentRefunded struct {
	PaymentID string  `json:"payment_id"`
	RefundID  string  `json:"refund_id"`
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
}
