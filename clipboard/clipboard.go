// Package clipboard provides clipboard access for widgets.
package clipboard

import "sync"

// Clipboard reads and writes text.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
	Available() bool
}

// MemoryClipboard keeps text in process. It is the default when no system
// clipboard is wired in, and what tests inspect.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// Read returns the stored text.
func (c *MemoryClipboard) Read() (string, error) {
	if c == nil {
		return "", nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

// Write stores text.
func (c *MemoryClipboard) Write(text string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	return nil
}

// Available always reports true.
func (c *MemoryClipboard) Available() bool {
	return true
}

// UnavailableClipboard drops writes and reads nothing.
type UnavailableClipboard struct{}

// Read returns an empty string.
func (UnavailableClipboard) Read() (string, error) {
	return "", nil
}

// Write discards text.
func (UnavailableClipboard) Write(string) error {
	return nil
}

// Available reports false.
func (UnavailableClipboard) Available() bool {
	return false
}
