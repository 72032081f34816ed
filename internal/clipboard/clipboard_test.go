package clipboard

import (
	"errors"
	"sync"
	"testing"

	"github.com/atotto/clipboard"
)

func TestMemory_LastWriterWins(t *testing.T) {
	m := &Memory{}
	var sink Sink = m

	for _, s := range []string{"<p>one</p>", "<p>two</p>"} {
		if err := sink.Write(s); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if got := m.Text(); got != "<p>two</p>" {
		t.Errorf("Text() = %q, want %q", got, "<p>two</p>")
	}
	if m.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", m.Writes())
	}
}

func TestMemory_ConcurrentWrites(t *testing.T) {
	m := &Memory{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Write("x")
		}()
	}
	wg.Wait()

	if m.Writes() != 50 || m.Text() != "x" {
		t.Errorf("got %d writes, text %q", m.Writes(), m.Text())
	}
}

func TestSystem_Unavailable(t *testing.T) {
	if !clipboard.Unsupported {
		t.Skip("clipboard backend present; not overwriting the user's clipboard")
	}

	s := NewSystem()
	if s.Available() {
		t.Error("Available() should be false without a backend")
	}
	if err := s.Write("x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
