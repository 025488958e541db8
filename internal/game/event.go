package game

//go:generate go tool mockgen -destination=./mocks/observer_mock.go -package=mocks . Observer

// EventType identifies what changed.
type EventType int

const (
	EventSceneChanged EventType = iota
	EventScoreChanged
	EventHealthChanged
	EventTimeChanged // Value is the remaining time rounded up to whole seconds
)

func (t EventType) String() string {
	switch t {
	case EventSceneChanged:
		return "scene"
	case EventScoreChanged:
		return "score"
	case EventHealthChanged:
		return "health"
	case EventTimeChanged:
		return "time"
	default:
		return "unknown"
	}
}

// Event is a change notification for the presentation layer.
type Event struct {
	Type  EventType
	Scene Scene // Set for EventSceneChanged
	Value int   // Score, health or seconds for the other types
}

// Observer receives events synchronously, in emission order.
type Observer interface {
	Notify(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) {
	f(e)
}
