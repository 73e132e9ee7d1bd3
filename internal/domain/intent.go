package domain

// Intent is the handling category a query is routed to.
type Intent string

const (
	// IntentCart covers cart mutations and views.
	IntentCart Intent = "cart"
	// IntentOrder covers order tracking, cancellation, and delivery confirmation.
	IntentOrder Intent = "order"
	// IntentProduct covers catalog search queries.
	IntentProduct Intent = "product"
	// IntentSupport is the default fallback handled by FAQ lookup.
	IntentSupport Intent = "support"
	// IntentUnknown marks an envelope whose handler produced nothing usable.
	IntentUnknown Intent = "unknown"
)
