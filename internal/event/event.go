// internal/event/event.go
package event

// EventType — тип события
type EventType string

// Event — структура события
type Event struct {
	Type EventType
	Data interface{} // Данные события, если нужны
}

// Listener — интерфейс для подписчиков на события
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Dispatcher — синхронный диспетчер событий внутри одного тика.
// Подписчики вызываются в порядке подписки.
type Dispatcher struct {
	listeners map[EventType][]Listener
	sent      map[EventType]int
}

// NewDispatcher — создаёт новый диспетчер
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]Listener),
		sent:      make(map[EventType]int),
	}
}

// Subscribe — подписка на событие
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) {
	d.listeners[eventType] = append(d.listeners[eventType], listener)
}

// Dispatch — отправка события всем подписчикам
func (d *Dispatcher) Dispatch(event Event) {
	d.sent[event.Type]++
	for _, listener := range d.listeners[event.Type] {
		listener.OnEvent(event)
	}
}

// Count reports how many events of a type were dispatched so far.
func (d *Dispatcher) Count(eventType EventType) int {
	return d.sent[eventType]
}
