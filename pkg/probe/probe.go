// Package probe provides measure.Prober implementations.
//
// The placement core treats element lookup as an injected capability. This
// package supplies the production implementations:
//   - [Browser]: probes a live page in headless Chrome via chromedp
//   - [Cached]: wraps any prober with a probe-result cache
//   - [Static]: serves canned boxes, for demos and deterministic tests
package probe

import (
	"context"
	"sync"

	"github.com/myrho/hovercard/pkg/errors"
	"github.com/myrho/hovercard/pkg/measure"
)

// Static is a map-backed prober serving canned boxes. It is safe for
// concurrent use.
type Static struct {
	mu    sync.RWMutex
	boxes map[string]measure.Probe
}

// NewStatic creates a static prober with the given boxes.
func NewStatic(boxes map[string]measure.Probe) *Static {
	if boxes == nil {
		boxes = make(map[string]measure.Probe)
	}
	return &Static{boxes: boxes}
}

// Set stores or replaces the probe result for an element id.
func (s *Static) Set(id string, p measure.Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boxes[id] = p
}

// Remove drops an element id, making subsequent lookups fail.
func (s *Static) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boxes, id)
}

// Probe returns the canned boxes for id.
func (s *Static) Probe(ctx context.Context, id string) (measure.Probe, error) {
	if err := ctx.Err(); err != nil {
		return measure.Probe{}, err
	}
	s.mu.RLock()
	p, ok := s.boxes[id]
	s.mu.RUnlock()
	if !ok {
		return measure.Probe{}, errors.New(errors.ErrCodeElementNotFound, "no element with id %q", id)
	}
	return p, nil
}

// Ensure Static implements measure.Prober.
var _ measure.Prober = (*Static)(nil)
