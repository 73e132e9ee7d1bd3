package domain

// Envelope is the uniform response returned to the chat caller. Every field
// is always present; fields that do not apply to the resolved intent are
// zero-valued, never omitted.
type Envelope struct {
	Type     Intent     `json:"type"`
	Message  string     `json:"message"`
	Cart     []CartItem `json:"cart"`
	Total    float64    `json:"total"`
	Count    int        `json:"count"`
	Products []Product  `json:"products"`
}

// NewEnvelope returns an envelope with empty (non-nil) sequences so the
// JSON encoding always carries every field.
func NewEnvelope(intent Intent) Envelope {
	return Envelope{
		Type:     intent,
		Cart:     []CartItem{},
		Products: []Product{},
	}
}
