package code

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonwraymond/codecompare/runtime"
)

// mockEngine implements Engine for testing.
type mockEngine struct {
	mu sync.Mutex

	// Configurable returns
	executeResult runtime.ExecuteResult
	executeErr    error
	executeFunc   func(ctx context.Context, req runtime.ExecuteRequest) (runtime.ExecuteResult, error)

	// Call tracking
	executeCalls []runtime.ExecuteRequest
}

func (m *mockEngine) Execute(ctx context.Context, req runtime.ExecuteRequest) (runtime.ExecuteResult, error) {
	m.mu.Lock()
	m.executeCalls = append(m.executeCalls, req)
	fn := m.executeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return m.executeResult, m.executeErr
}

func (m *mockEngine) calls() []runtime.ExecuteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]runtime.ExecuteRequest(nil), m.executeCalls...)
}

// mockLogger records formatted messages.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *mockLogger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func newTestExecutor(engine Engine) *DefaultExecutor {
	exec, err := NewDefaultExecutor(Config{
		Engine:   engine,
		NewRunID: func() string { return "run-1" },
	})
	if err != nil {
		panic(err)
	}
	return exec
}
