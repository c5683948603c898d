package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	handler := NewInterruptHandler(nil)
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestInterruptMessage(t *testing.T) {
	tests := []struct {
		operation string
		want      string
	}{
		{operation: "Export", want: "Export interrupted."},
		{operation: "", want: "Operation interrupted."},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			out := &syncBuffer{}
			handler := NewInterruptHandler(out)
			handler.report(tt.operation)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestHandleInterruptsFollowsParent(t *testing.T) {
	out := &syncBuffer{}
	handler := NewInterruptHandler(out)

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, "Export")
	assert.NoError(t, ctx.Err())

	cancel()
	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, out.String())
}
