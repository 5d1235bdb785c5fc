// Package ids allocates identifiers for games and players.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	StrategySequence = "sequence"
	StrategyUUID     = "uuid"
)

type Generator interface {
	NewID() string
}

// Sequence hands out prefix-1, prefix-2, ... for the life of the process.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}

type UUID struct {
	prefix string
}

func NewUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

func (u *UUID) NewID() string {
	return u.prefix + "-" + uuid.New().String()
}

// New returns the generator for a configured strategy.
func New(strategy, prefix string) (Generator, error) {
	switch strategy {
	case StrategySequence:
		return NewSequence(prefix), nil
	case StrategyUUID:
		return NewUUID(prefix), nil
	}
	return nil, fmt.Errorf("unknown id strategy %q", strategy)
}
