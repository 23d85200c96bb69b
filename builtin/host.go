package builtin

import (
	"net/url"
	"sync"
)

// Host provides the environment-specific values that expressions can read.
type Host interface {
	// Href returns the current location as an absolute URL.
	Href() string

	// Hash returns the fragment of the current location, without the '#'.
	Hash() string

	// Mouse returns the last known pointer position.
	Mouse() (x, y float64)
}

// StaticHost is a [Host] with fixed values that can be updated between
// evaluations.
type StaticHost struct {
	mu     sync.RWMutex
	href   string
	mouseX float64
	mouseY float64
}

// NewStaticHost returns a host located at href.
func NewStaticHost(href string) *StaticHost {
	return &StaticHost{href: href}
}

// SetHref moves the host to href.
func (h *StaticHost) SetHref(href string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.href = href
}

// SetMouse records a pointer position.
func (h *StaticHost) SetMouse(x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.mouseX, h.mouseY = x, y
}

// Href implements [Host].
func (h *StaticHost) Href() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.href
}

// Hash implements [Host].
func (h *StaticHost) Hash() string {
	u, err := url.Parse(h.Href())
	if err != nil {
		return ""
	}

	return u.EscapedFragment()
}

// Mouse implements [Host].
func (h *StaticHost) Mouse() (x, y float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.mouseX, h.mouseY
}
