package domain

// Message is a transport-agnostic broker message.
type Message struct {
	Key   []byte
	Value []byte
}

// SubscriberPort feeds at-least-once transaction events into the engine.
type SubscriberPort interface {
	Subscribe(topic, groupID string) (<-chan Message, error)
}
