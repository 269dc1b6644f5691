// Package notifier broadcasts dataset reloads to SSE listeners.
package notifier

import "sync"

// Notifier pings listeners when a dataset they follow reloads. Listeners
// receive an empty struct and should re-read the catalog.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]string
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]string),
	}
}

// Subscribe returns a channel that is pinged when dataset reloads. An empty
// dataset follows every reload.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(dataset string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = dataset
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast pings the listeners of dataset and those following everything.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Broadcast(dataset string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, follows := range n.listeners {
		if follows != "" && follows != dataset {
			continue
		}
		select {
		case ch <- struct{}{}:
		default:
			// Channel full, the listener re-reads on its pending ping.
		}
	}
}
