package workplace

import "errors"

// Error kinds surfaced by the service. Callers discriminate with errors.Is;
// the message carries the human-readable detail.
var (
	// ErrNotFound marks a reference to an entity that does not exist in the
	// expected parent (company, employee, team, department, item, shift).
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation against an entity that cannot accept
	// it, such as assigning to an archived team or department.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation marks malformed input, such as a shift ending before it
	// starts or a start scope with missing parameters.
	ErrValidation = errors.New("validation failed")
)

// errNoChange is returned internally by mutators whose requested change is
// already in effect. The service skips persistence and timestamp bumps and
// resolves the call with the current snapshot.
var errNoChange = errors.New("no change")
