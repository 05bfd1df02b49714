// Package events fans simulation events out to registered observers. The web
// layer registers one channel per connected websocket client and streams
// whatever the nodes and miners report.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer gives a slow receiver room before messages are dropped. A
// websocket send can take a while and an event that finds the buffer full is
// not worth blocking a node for.
const messageBuffer = 100

// Events maintains the mapping of observer id to delivery channel.
type Events struct {
	mu        sync.RWMutex
	observers map[string]chan string
}

// New constructs an Events for registering observers and sending events.
func New() *Events {
	return &Events{
		observers: make(map[string]chan string),
	}
}

// Shutdown closes and removes every channel that was handed out by Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.observers {
		delete(evt.observers, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used to
// receive events. Calling Acquire again with the same id returns the same
// channel.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.observers[id]
	if exists {
		return ch
	}

	evt.observers[id] = make(chan string, messageBuffer)
	return evt.observers[id]
}

// Release closes and removes the channel that was provided by the call
// to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.observers[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.observers, id)
	close(ch)

	return nil
}

// Send delivers the event to every registered observer. Send never blocks
// waiting for a receiver, a full buffer drops the event for that observer.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.observers {
		select {
		case ch <- s:
		default:
		}
	}
}
