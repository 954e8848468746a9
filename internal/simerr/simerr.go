// Package simerr defines the core's error taxonomy.
package simerr

import "errors"

// Sentinel errors. Wrap with fmt.Errorf("...: %w", Sentinel) at the call
// site to attach context; callers use errors.Is to classify.
var (
	// PreconditionFailure means an applicator handler rejected a command
	// (e.g. AddRelationship of a kind that conflicts with an active
	// exclusive relationship on the same pair). Logged at warn
	// level by the applicator; the command is skipped, no effect rows are
	// written, and it never propagates past advance_one_tick.
	PreconditionFailure = errors.New("precondition failure")

	// InvariantViolation means a handler observed world state that
	// violates a model invariant it depends on. Terminates the tick.
	InvariantViolation = errors.New("invariant violation")

	// IdCollision means EntityMap refused a conflicting mapping. Fatal —
	// indicates a driver bug.
	IdCollision = errors.New("id collision")

	// Unimplemented means a command kind reached the applicator with no
	// registered handler. Logged at warn level; the command is skipped.
	Unimplemented = errors.New("unimplemented command kind")
)
