package domain

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// OrderProcessing means the order has not shipped yet.
	OrderProcessing OrderStatus = "processing"
	// OrderShipped means the order is in transit.
	OrderShipped OrderStatus = "shipped"
	// OrderDelivered is terminal; cancellation is no longer possible.
	OrderDelivered OrderStatus = "delivered"
	// OrderCanceled is terminal.
	OrderCanceled OrderStatus = "canceled"
)

// Cancelable reports whether an order in this status may still be canceled.
func (s OrderStatus) Cancelable() bool {
	return s == OrderProcessing || s == OrderShipped
}

// OrderAction is what an order query asks for.
type OrderAction string

const (
	// ActionTrack is a pure read of the order status.
	ActionTrack OrderAction = "track"
	// ActionCancel requests a transition to canceled.
	ActionCancel OrderAction = "cancel"
	// ActionConfirm marks the order as delivered.
	ActionConfirm OrderAction = "confirm"
	// ActionUnknown means no order id could be resolved.
	ActionUnknown OrderAction = "unknown"
)

// Order is a single order row.
type Order struct {
	ID     string
	Status OrderStatus
	ETA    string
	Items  []string
}

// OrderRecord is the structured outcome of an order query. A missing or
// unresolvable id is reported here as a message, never as an error.
type OrderRecord struct {
	Action  OrderAction `json:"action"`
	OrderID string      `json:"order_id,omitempty"`
	Status  OrderStatus `json:"status,omitempty"`
	ETA     string      `json:"eta,omitempty"`
	Items   []string    `json:"items,omitempty"`
	Message string      `json:"message,omitempty"`
}
