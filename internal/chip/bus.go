// Package chip programs the RASDR sub-devices (transceiver, PLL, clock
// generator) through a named-attribute register bus. The core computes
// register values; the bus carries them to real or simulated hardware.
package chip

import (
	"fmt"
	"sort"
	"sync"
)

// RegisterBus writes and reads named device attributes. Implementations:
// MemBus (simulation) and SSHBus (remote sysfs on embedded units).
type RegisterBus interface {
	WriteAttr(device, attr, value string) error
	ReadAttr(device, attr string) (string, error)
	Close() error
}

// MemBus is an in-memory RegisterBus used in simulation mode and tests. It
// retains every write in order so tests can assert on the programmed values.
type MemBus struct {
	mu     sync.Mutex
	attrs  map[string]string
	writes []Write
	closed bool
}

// Write records one attribute write as seen by the bus.
type Write struct {
	Device string
	Attr   string
	Value  string
}

func NewMemBus() *MemBus {
	return &MemBus{attrs: make(map[string]string)}
}

func (b *MemBus) WriteAttr(device, attr, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("membus: write %s/%s on closed bus", device, attr)
	}
	b.attrs[device+"/"+attr] = value
	b.writes = append(b.writes, Write{Device: device, Attr: attr, Value: value})
	return nil
}

func (b *MemBus) ReadAttr(device, attr string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", fmt.Errorf("membus: read %s/%s on closed bus", device, attr)
	}
	v, ok := b.attrs[device+"/"+attr]
	if !ok {
		return "", fmt.Errorf("membus: attribute %s/%s not set", device, attr)
	}
	return v, nil
}

func (b *MemBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

// Writes returns a copy of the write journal.
func (b *MemBus) Writes() []Write {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Write, len(b.writes))
	copy(out, b.writes)
	return out
}

// Attrs returns a copy of the current attribute values keyed by
// "device/attr", for diagnostics.
func (b *MemBus) Attrs() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]string, len(b.attrs))
	for k, v := range b.attrs {
		out[k] = v
	}
	return out
}

// AttrKeys returns the set attribute keys in sorted order.
func (b *MemBus) AttrKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.attrs))
	for k := range b.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
