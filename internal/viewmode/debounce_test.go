package viewmode

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type termRecorder struct {
	terms []string
	mu    sync.Mutex
}

func (r *termRecorder) record(term string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = append(r.terms, term)
}

func (r *termRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terms...)
}

func TestDebouncerDeliversLastTerm(t *testing.T) {
	rec := &termRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("a")
	d.Trigger("ab")
	d.Trigger("abc")

	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"abc"}, rec.snapshot())
}

func TestDebouncerDropsRepeatedTerm(t *testing.T) {
	rec := &termRecorder{}
	d := NewDebouncer(10*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("x")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	d.Trigger("x")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"x"}, rec.snapshot())

	d.Trigger("y")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerStop(t *testing.T) {
	rec := &termRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Trigger("gone")
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}
