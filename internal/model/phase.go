package model

import "fmt"

// Phase is a segment of an innings classified by over number.
type Phase int

const (
	Powerplay Phase = iota
	MiddleOvers
	DeathOvers
)

// PhaseCount is the number of phases an innings is split into.
const PhaseCount = 3

// Phase boundaries of the 50-over format. Overs are 0-indexed.
const (
	DefaultPowerplayEnd   = 10
	DefaultMiddleOversEnd = 40
)

// Phases lists every phase in innings order.
var Phases = [PhaseCount]Phase{Powerplay, MiddleOvers, DeathOvers}

func (p Phase) String() string {
	switch p {
	case Powerplay:
		return "Powerplay"
	case MiddleOvers:
		return "Middle Overs"
	case DeathOvers:
		return "Death Overs"
	default:
		return "?"
	}
}

// PhaseBoundaries splits overs into phases: over < PowerplayEnd is the powerplay,
// PowerplayEnd <= over < MiddleEnd the middle overs, the rest death overs.
type PhaseBoundaries struct {
	PowerplayEnd int
	MiddleEnd    int
}

var (
	ODIPhases = PhaseBoundaries{PowerplayEnd: DefaultPowerplayEnd, MiddleEnd: DefaultMiddleOversEnd}
	T20Phases = PhaseBoundaries{PowerplayEnd: 6, MiddleEnd: 15}
)

// Classify returns the phase an over number falls into.
func (b PhaseBoundaries) Classify(over int) Phase {
	switch {
	case over < b.PowerplayEnd:
		return Powerplay
	case over < b.MiddleEnd:
		return MiddleOvers
	default:
		return DeathOvers
	}
}

// Validate checks that the boundaries are non-negative and ordered.
func (b PhaseBoundaries) Validate() error {
	if b.PowerplayEnd < 0 {
		return fmt.Errorf("powerplay end must be non-negative, got %d", b.PowerplayEnd)
	}
	if b.MiddleEnd < b.PowerplayEnd {
		return fmt.Errorf("middle overs end %d is before powerplay end %d", b.MiddleEnd, b.PowerplayEnd)
	}
	return nil
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
