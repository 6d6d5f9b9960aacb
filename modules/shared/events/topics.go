package events

// Topic names form the stable wire contract with the broker.
const (
	TopicCart    = "cart-events"
	TopicOrder   = "order-events"
	TopicPayment = "payment-events"
	TopicProduct = "product-events"
)

// Type enumerates every recognized event type. Dispatchers treat anything
// outside this set as an acknowledged no-op.
type Type string

const (
	TypeCartItemAdded         Type = "cart.item_added"
	TypeCartItemUpdated       Type = "cart.item_updated"
	TypeCartItemRemoved       Type = "cart.item_removed"
	TypeCartCleared           Type = "cart.cleared"
	TypeCartCheckoutCompleted Type = "cart.checkout_completed"

	TypeOrderCreated       Type = "order.created"
	TypeOrderConfirmed     Type = "order.confirmed"
	TypeOrderPaid          Type = "order.paid"
	TypeOrderStatusChanged Type = "order.status_changed"

	TypePaymentRequested Type = "payment.requested"
	TypePaymentCompleted Type = "payment.completed"
	TypePaymentFailed    Type = "payment.failed"
	TypePaymentRefunded  Type = "payment.refunded"

	TypeProductCreated      Type = "product.created"
	TypeProductUpdated      Type = "product.updated"
	TypeProductDeleted      Type = "product.deleted"
	TypeProductStockUpdated Type = "product.stock_updated"
	// TypeOrderPlaced flows on the product topic: it is the stock-reduction
	// signal consumed by the inventory reactor.
	TypeOrderPlaced Type = "order.placed"
)

func (t Type) String() string { return string(t) }
