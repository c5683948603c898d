package sheets

import (
	"context"
	"sync"
)

// MockWriter records reports instead of contacting Google.
type MockWriter struct {
	WriteFunc     func(ctx context.Context, report Report) (string, error)
	Reports       []Report
	SpreadsheetID string
	mu            sync.Mutex
}

var _ ReportWriter = (*MockWriter)(nil)

// NewMockWriter creates a mock writer returning spreadsheetID.
func NewMockWriter(spreadsheetID string) *MockWriter {
	return &MockWriter{SpreadsheetID: spreadsheetID}
}

// Write implements ReportWriter.
func (m *MockWriter) Write(ctx context.Context, report Report) (string, error) {
	m.mu.Lock()
	m.Reports = append(m.Reports, report)
	fn := m.WriteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, report)
	}
	return m.SpreadsheetID, nil
}

// Calls returns a copy of every report written.
func (m *MockWriter) Calls() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Report, len(m.Reports))
	copy(out, m.Reports)
	return out
}
