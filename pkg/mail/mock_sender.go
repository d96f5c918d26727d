package mail

import (
	"context"
	"errors"
	"sync"
)

// ErrMockTransient is returned for calls consumed by MockSender.FailNext.
var ErrMockTransient = errors.New("mock: transient send failure")

// MockSender records messages instead of delivering them.
type MockSender struct {
	mu   sync.Mutex
	sent []Message
	// Err, when set, is returned by every Send and nothing is recorded.
	Err error
	// FailNext makes the next N calls fail with ErrMockTransient.
	FailNext int
	calls    int
}

// Send implements Sender.
func (m *MockSender) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return m.Err
	}
	if m.FailNext > 0 {
		m.FailNext--
		return ErrMockTransient
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockSender) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

// Calls returns how many times Send was invoked.
func (m *MockSender) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Last returns the most recent message for the recipient and kind.
func (m *MockSender) Last(to string, kind Kind) (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].To == to && m.sent[i].Kind == kind {
			return m.sent[i], true
		}
	}
	return Message{}, false
}

// Dispatch lets MockSender stand in for a Dispatcher in tests.
func (m *MockSender) Dispatch(ctx context.Context, msg Message) error {
	return m.Send(ctx, msg)
}
