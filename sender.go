package flash

import (
	"context"
	"sync"
)

// incomingKey is the context key for messages loaded for the current request.
type incomingKey struct{}

// bagKey is the context key for the outgoing message buffer.
type bagKey struct{}

// bag buffers messages queued during a request until the middleware
// persists them at response time.
type bag struct {
	mu       sync.Mutex
	messages []Message
	minLevel Level
}

func newBag(minLevel Level) *bag {
	return &bag{minLevel: minLevel}
}

// add appends a message, discarding it if below the configured minimum level.
func (b *bag) add(m Message) {
	if m.Level < b.minLevel {
		return
	}
	b.mu.Lock()
	b.messages = append(b.messages, m)
	b.mu.Unlock()
}

// drain returns the buffered messages and empties the bag.
func (b *bag) drain() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	messages := b.messages
	b.messages = nil
	return messages
}

// Send queues a message for display on a subsequent request.
// Returns ErrNotConfigured if the flash middleware is not mounted.
func Send(ctx context.Context, m Message) error {
	b, ok := ctx.Value(bagKey{}).(*bag)
	if !ok {
		return ErrNotConfigured
	}
	b.add(m)
	return nil
}

// Debug queues a debug-level message.
func Debug(ctx context.Context, text string) error {
	return Send(ctx, Message{Level: LevelDebug, Text: text})
}

// Info queues an info-level message.
func Info(ctx context.Context, text string) error {
	return Send(ctx, Message{Level: LevelInfo, Text: text})
}

// Success queues a success-level message.
func Success(ctx context.Context, text string) error {
	return Send(ctx, Message{Level: LevelSuccess, Text: text})
}

// Warning queues a warning-level message.
func Warning(ctx context.Context, text string) error {
	return Send(ctx, Message{Level: LevelWarning, Text: text})
}

// Error queues an error-level message.
func Error(ctx context.Context, text string) error {
	return Send(ctx, Message{Level: LevelError, Text: text})
}

// Messages returns the messages queued by a previous request, in the order
// they were sent. Returns nil if the flash middleware is not mounted or no
// messages are pending. Reading does not clear the queue; the middleware
// clears it when the response goes out.
func Messages(ctx context.Context) []Message {
	messages, _ := ctx.Value(incomingKey{}).([]Message)
	return messages
}
