package orderreaderv1

// Action selects what the engine should do with an inbound payload.
type Action string

const (
	// ActionPlace places a new order. An empty action is treated as place.
	ActionPlace Action = "place"
	// ActionCancel cancels a previously placed order by id.
	ActionCancel Action = "cancel"
	// ActionAmend amends the quantity and/or price of a resting order.
	ActionAmend Action = "amend"
)

// OrderPayload is the wire form of one order instruction on the intake
// topic. Side, Type and Action stay strings here; the order manager owns
// their validation. Offset is not part of the wire format, the reader sets
// it from the kafka message.
type OrderPayload struct {
	Action   Action  `json:"action,omitempty"`
	ID       string  `json:"id"`
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Type     string  `json:"type"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price,omitempty"`

	Offset int64 `json:"-"`
}
