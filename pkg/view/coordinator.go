package view

import (
	"sync"

	"github.com/atelier-studio/atelier/pkg/library"
)

// Screen identifies the active top-level view.
type Screen string

const (
	ScreenStudio  Screen = "studio"
	ScreenLibrary Screen = "library"
)

// Coordinator tracks which view is active, which saved design is under
// inspection, and which image URLs have failed to load. It holds pure UI
// state shared by the terminal and web front ends; all I/O lives elsewhere.
type Coordinator struct {
	mu        sync.RWMutex
	active    Screen
	inspected *library.SavedDesign
	failed    map[string]bool
}

func NewCoordinator() *Coordinator {
	return &Coordinator{active: ScreenStudio, failed: map[string]bool{}}
}

func (c *Coordinator) SelectView(screen Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = screen
}

func (c *Coordinator) Active() Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Inspect opens the given design in the detail view.
func (c *Coordinator) Inspect(design library.SavedDesign) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := design
	c.inspected = &d
}

// Inspected returns the design currently under inspection, if any.
func (c *Coordinator) Inspected() (library.SavedDesign, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.inspected == nil {
		return library.SavedDesign{}, false
	}
	return *c.inspected, true
}

func (c *Coordinator) ClearInspection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inspected = nil
}

// HandleDeleted clears the inspection selection when the deleted design was
// the one being inspected; other deletions leave the selection untouched.
func (c *Coordinator) HandleDeleted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inspected != nil && c.inspected.ID == id {
		c.inspected = nil
	}
}

// MarkImageFailed records that a URL failed to render. The flag is
// monotonic: once failed, the URL stays failed for the process lifetime so
// the presentation degrades to a placeholder without refetching.
func (c *Coordinator) MarkImageFailed(url string) {
	if url == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed[url] = true
}

func (c *Coordinator) ImageFailed(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failed[url]
}
