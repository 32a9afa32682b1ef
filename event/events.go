package event

type Bus struct {
	events chan Event
}

func NewBus() *Bus {
	return &Bus{events: make(chan Event)}
}

func (b *Bus) Events() <-chan Event {
	return b.events
}

// Fire delivers synchronously: a fired event is consumed before the
// producer moves on, so no progress notice is lost when the run ends.
func (b *Bus) Fire(eventType string, detail string) {
	b.events <- Event{Type: eventType, Detail: detail}
}

// Close ends delivery; consumers ranging over Events() return.
// Only the producing side may close, after its last Fire.
func (b *Bus) Close() {
	close(b.events)
}

// Events
const (
	FetchStarted  = "fetch_started"
	JarFetching   = "jar_fetching"
	FetchFinished = "fetch_finished"
)

type Event struct {
	Type   string
	Detail string // remote address and destination for JarFetching
}
