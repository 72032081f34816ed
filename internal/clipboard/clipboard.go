// Package clipboard delivers cleaned output to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard backend exists, for example
// on a headless Linux host without xclip, xsel or wl-copy.
var ErrUnavailable = errors.New("clipboard unavailable")

// Sink receives a complete piece of text. Each Write replaces the previous
// content; sinks never append.
type Sink interface {
	Write(text string) error
}

// System writes to the operating system clipboard. The clipboard owner keeps
// the content after the process exits.
type System struct{}

// NewSystem returns the system clipboard sink.
func NewSystem() *System {
	return &System{}
}

// Available reports whether a clipboard backend was found.
func (s *System) Available() bool {
	return !clipboard.Unsupported
}

// Write replaces the clipboard content with text.
func (s *System) Write(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Memory keeps the last written text in process.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
}

// Write replaces the stored text.
func (m *Memory) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.writes++
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times Write was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
