// Package events is an in-process publish/subscribe bus. A Bus is created by
// the application and handed to the services that publish; there is no
// package-level instance.
package events

import (
	evbus "github.com/asaskevich/EventBus"
)

const (
	// TopicPasswordGenerated carries a PasswordGenerated value.
	TopicPasswordGenerated = "password:generated"
	// TopicEntrySaved carries an EntrySaved value.
	TopicEntrySaved = "vault:entry_saved"
)

// PasswordGenerated describes a generated password without its content.
type PasswordGenerated struct {
	Length int
	Score  int
	Label  string
}

// EntrySaved is published after a vault entry is created or its password
// changed.
type EntrySaved struct {
	UserID  int64
	EntryID string
}

// Publisher is the side of the bus services depend on.
type Publisher interface {
	Publish(topic string, args ...any)
}

// Bus wraps an EventBus instance.
type Bus struct {
	bus evbus.Bus
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{bus: evbus.New()}
}

// Subscribe registers fn to run synchronously on the publisher's goroutine.
func (b *Bus) Subscribe(topic string, fn any) error {
	return b.bus.Subscribe(topic, fn)
}

// SubscribeAsync registers fn to run on its own goroutine per event.
func (b *Bus) SubscribeAsync(topic string, fn any) error {
	return b.bus.SubscribeAsync(topic, fn, false)
}

// Unsubscribe removes a handler previously registered on topic.
func (b *Bus) Unsubscribe(topic string, fn any) error {
	return b.bus.Unsubscribe(topic, fn)
}

// Publish delivers args to every handler of topic.
func (b *Bus) Publish(topic string, args ...any) {
	b.bus.Publish(topic, args...)
}

// Close waits for in-flight async handlers to finish.
func (b *Bus) Close() {
	b.bus.WaitAsync()
}

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) Publish(string, ...any) {}
