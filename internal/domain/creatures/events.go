package creatures

// EventType identifica cada notificación del core.
type EventType string

const (
	EventCreated     EventType = "created"
	EventListed      EventType = "listed"
	EventTransferred EventType = "transferred"
	EventSold        EventType = "sold"
)

// Event es el sobre de notificación que consume un observador externo.
// Fire-and-forget: se emite después de comprometer la acción, en el mismo
// orden en que las acciones se aplicaron (Seq es el índice de secuencia).
type Event struct {
	ID         string    `json:"id"`
	Seq        uint64    `json:"seq"`
	Type       EventType `json:"type"`
	CreatureID string    `json:"creature_id"`
	Owner      string    `json:"owner,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Buyer      string    `json:"buyer,omitempty"`
	Seller     string    `json:"seller,omitempty"`
	Price      *uint64   `json:"price,omitempty"`
}

// Notifier recibe eventos ya comprometidos. No debe bloquear ni fallar la
// acción: la entrega es best-effort.
type Notifier interface {
	Emit(ev Event)
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(ev Event)

func (f NotifierFunc) Emit(ev Event) { f(ev) }

// Fanout reparte cada evento a varios notifiers en orden.
func Fanout(ns ...Notifier) Notifier {
	return NotifierFunc(func(ev Event) {
		for _, n := range ns {
			if n != nil {
				n.Emit(ev)
			}
		}
	})
}
