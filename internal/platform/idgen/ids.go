package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator hands out identifiers for projects and personas.
type Generator interface {
	NewID() string
}

// UUID generates random (v4) UUIDs.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.New().String()
}

// Sequence generates "prefix-1", "prefix-2", ... Useful where tests need
// predictable identifiers.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}
