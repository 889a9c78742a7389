package types

import "errors"

// Sentinel errors for planning inputs. Using sentinels allows callers to
// match with errors.Is for reliable error handling.
var (
	// ErrCyclicEvolution is returned when an evolution table contains a cycle.
	ErrCyclicEvolution = errors.New("evolution table contains a cycle")

	// ErrUnknownSpecies is returned when a species or family is referenced
	// that the game tables do not describe.
	ErrUnknownSpecies = errors.New("unknown species")

	// ErrMissingCandyCost is returned when a species has successors but no
	// configured candy cost to evolve.
	ErrMissingCandyCost = errors.New("missing candy cost")

	// ErrNotAuthenticated is returned by clients used before a successful login.
	ErrNotAuthenticated = errors.New("not authenticated")
)
